// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// newLogger builds the diagnostic logger. Diagnostics go to w, never to the
// result stream.
func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return logger, nil
}

// sessionLogger tags every entry of one shell run with a session id.
func sessionLogger(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("session", uuid.NewString())
}
