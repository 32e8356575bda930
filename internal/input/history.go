// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// MaxEntryLen is the longest line kept in the history file. Longer lines
// are neither written nor loaded.
const MaxEntryLen = 1024 * 1024

// History persists submitted lines, one per line of the history file.
// Entries are appended synchronously as they are recorded.
type History struct {
	fs   afero.Fs
	path string

	// IgnoreSpace skips lines that start with a space, mirroring the
	// readline convention for keeping a command out of history.
	IgnoreSpace bool
}

// NewHistory returns a history store for path on fs. A nil fs means the
// operating system filesystem.
func NewHistory(fs afero.Fs, path string) *History {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &History{fs: fs, path: path}
}

// Path returns the history file location.
func (h *History) Path() string {
	return h.path
}

// Load returns the recorded entries, oldest first. A missing file is an
// empty history and entries over MaxEntryLen are skipped. Any other failure
// is ErrHistoryLoadFailed, returned with the entries read before it.
func (h *History) Load() ([]string, error) {
	f, err := h.fs.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, ErrHistoryLoadFailed.Wrap(err, h.path)
	}
	defer f.Close()

	var (
		entries []string
		line    []byte
		skip    bool
	)
	r := bufio.NewReader(f)
	for {
		chunk, err := r.ReadSlice('\n')
		if !skip {
			line = append(line, chunk...)
			skip = len(bytes.TrimRight(line, "\r\n")) > MaxEntryLen
		}
		if err == bufio.ErrBufferFull {
			continue
		}

		if entry := strings.TrimRight(string(line), "\r\n"); entry != "" && !skip {
			entries = append(entries, entry)
		}
		line, skip = line[:0], false

		switch {
		case err == io.EOF:
			return entries, nil
		case err != nil:
			return entries, ErrHistoryLoadFailed.Wrap(err, h.path)
		}
	}
}

// Skip reports whether line should not be recorded at all.
func (h *History) Skip(line string) bool {
	if line == "" || len(line) > MaxEntryLen {
		return true
	}
	return h.IgnoreSpace && strings.HasPrefix(line, " ")
}

// Append writes line to the end of the history file, creating the file
// and its directory on first use.
func (h *History) Append(line string) error {
	if h.Skip(line) {
		return nil
	}
	// Embedded newlines would split one entry into several on reload.
	line = strings.ReplaceAll(line, "\n", " ")

	if dir := filepath.Dir(h.path); dir != "." {
		if err := h.fs.MkdirAll(dir, 0700); err != nil {
			return ErrHistoryWriteFailed.Wrap(err, h.path)
		}
	}

	f, err := h.fs.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return ErrHistoryWriteFailed.Wrap(err, h.path)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return ErrHistoryWriteFailed.Wrap(err, h.path)
	}
	if err := f.Close(); err != nil {
		return ErrHistoryWriteFailed.Wrap(err, h.path)
	}
	return nil
}
