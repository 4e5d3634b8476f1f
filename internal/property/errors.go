// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"github.com/samber/oops"
)

// Error codes carried by property errors.
const (
	CodeReadOnly        = "PROPERTY_READ_ONLY"
	CodeInvalidValue    = "PROPERTY_INVALID_VALUE"
	CodeRangeOrder      = "PROPERTY_RANGE_ORDER"
	CodeTypeMismatch    = "PROPERTY_TYPE_MISMATCH"
	CodeUnsupportedType = "PROPERTY_UNSUPPORTED_TYPE"
)

func errReadOnly(name string) error {
	return oops.Code(CodeReadOnly).
		With("property", name).
		Errorf("property %q is read-only", name)
}

func errInvalidValue(name string, value any) error {
	return oops.Code(CodeInvalidValue).
		With("property", name).
		With("value", value).
		Errorf("invalid value %v for property %q", value, name)
}

func errTypeMismatch(name string, kind Kind, value any) error {
	return oops.Code(CodeTypeMismatch).
		With("property", name).
		With("kind", kind.String()).
		With("value", value).
		Errorf("value of type %T cannot be stored in %s property %q", value, kind, name)
}

func errRangeOrder(name, format string, args ...any) error {
	return oops.Code(CodeRangeOrder).
		With("property", name).
		Errorf(format, args...)
}
