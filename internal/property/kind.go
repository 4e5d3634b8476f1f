// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"strings"

	"github.com/samber/oops"
)

// Kind is the semantic type tag of a property's value.
type Kind uint8

// Supported property kinds.
const (
	KindBool Kind = iota + 1
	KindInt
	KindDouble
	KindString
	KindChoice
	KindDoubleVector
	KindImage
)

var kindNames = map[Kind]string{
	KindBool:         "bool",
	KindInt:          "int",
	KindDouble:       "double",
	KindString:       "string",
	KindChoice:       "choice",
	KindDoubleVector: "vector",
	KindImage:        "image",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a kind name ("int", "vector", ...) back to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, oops.Code(CodeUnsupportedType).With("kind", s).Errorf("unsupported property kind %q", s)
}

// InvalidValuePolicy selects what happens when a write fails validation.
type InvalidValuePolicy uint8

const (
	// PolicyIgnore keeps the current value but still raises ValueChanged so
	// observers can resynchronize.
	PolicyIgnore InvalidValuePolicy = iota
	// PolicyClamp rewrites the value to the nearest valid one.
	PolicyClamp
	// PolicyThrowError rejects the write with an InvalidValue error.
	PolicyThrowError
)

func (p InvalidValuePolicy) String() string {
	switch p {
	case PolicyIgnore:
		return "ignore"
	case PolicyClamp:
		return "clamp"
	case PolicyThrowError:
		return "error"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "ignore", "clamp" or "error". The empty string means ignore.
func ParsePolicy(s string) (InvalidValuePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return PolicyIgnore, nil
	case "clamp":
		return PolicyClamp, nil
	case "error", "throw":
		return PolicyThrowError, nil
	default:
		return 0, oops.Code(CodeUnsupportedType).With("policy", s).Errorf("unknown invalid-value policy %q", s)
	}
}
