// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package input turns typed lines into complete shell inputs.
//
// A Reader pulls physical lines from an Editor and groups them into logical
// inputs: a dot-command such as ".tables", or a SQL statement that may span
// several lines and ends with ";", "go" or "/".
//
// # Key Types
//
//   - Reader: the accumulation loop, with main and continuation prompts
//   - Input: a classified dot-command or SQL statement
//   - Editor: the line source; LinerEditor for terminals, ScanEditor for pipes
//   - History: the append-only history file
//
// # Usage
//
//	hist := input.NewHistory(nil, "/home/me/.libsql_history")
//	ed := input.NewLinerEditor(input.LinerOptions{History: hist, Completer: input.Complete})
//	defer ed.Close()
//
//	r := input.NewReader(ed)
//	for {
//	    in, err := r.ReadInput()
//	    if err != nil {
//	        break
//	    }
//	    if in.IsDotCommand() {
//	        // interpret in.Text
//	    } else {
//	        // execute in.Statement()
//	    }
//	}
package input
