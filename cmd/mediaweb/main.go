// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/autobrr/mediaweb/internal/commands"
)

func main() {
	commands.Execute()
}
