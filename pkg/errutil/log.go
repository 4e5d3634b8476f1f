// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil provides helpers for working with coded oops errors.
package errutil

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Code returns the code of the innermost coded oops error in err's chain,
// or "" when there is none.
func Code(err error) string {
	code := ""
	for e := err; e != nil; e = errors.Unwrap(e) {
		var o oops.OopsError
		if errors.As(e, &o) {
			if c, ok := o.Code().(string); ok && c != "" {
				code = c
			}
		}
	}
	return code
}

// HasCode reports whether any oops error in err's chain carries code.
func HasCode(err error, code string) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		var o oops.OopsError
		if errors.As(e, &o) && o.Code() == code {
			return true
		}
	}
	return false
}

// LogError logs err at error level. Oops errors contribute their code and
// context as separate attributes.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := Code(err); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
