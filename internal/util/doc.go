// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the shell packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: column-aware truncation with ellipsis
//   - StringWidth, PadRight: terminal display width helpers
//   - SingleLine: flatten a value for a table cell
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing over an afero.Fs
//
// # Usage
//
//	cell := util.TruncateWidth(util.SingleLine(value), 40)
//
//	err := util.AtomicWriteFile(afero.NewOsFs(), path, data, 0600)
package util
