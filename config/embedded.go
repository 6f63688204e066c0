// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Parses and caches the defaults embedded in the defaults package.

package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/framegrace/texelvirt/defaults"
)

// embeddedKey caches the system defaults next to the per-app ones.
const embeddedKey = ""

var (
	embeddedMu sync.Mutex
	embedded   = make(map[string]Config)
)

// embeddedDefaults returns a private copy of the embedded defaults for app,
// or for the system config when app is empty. A nil result means nothing
// was embedded for that name.
func embeddedDefaults(app string) Config {
	embeddedMu.Lock()
	defer embeddedMu.Unlock()

	cfg, ok := embedded[app]
	if !ok {
		var err error
		cfg, err = parseEmbedded(app)
		if err != nil {
			// The files are compiled in; a parse error is a packaging bug.
			panic(fmt.Sprintf("config: embedded defaults for %q: %v", app, err))
		}
		embedded[app] = cfg
	}
	return Clone(cfg)
}

func parseEmbedded(app string) (Config, error) {
	var data []byte
	if app == embeddedKey {
		var err error
		if data, err = defaults.SystemConfig(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if data, err = defaults.AppConfig(app); err != nil {
			// No embedded file for this app.
			return nil, nil
		}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
