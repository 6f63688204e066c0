// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelvirt/main.go
// Summary: Entry point for the texelvirt list viewer.

package main

import (
	"fmt"
	"os"

	"github.com/framegrace/texelvirt/cmd/texelvirt/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
