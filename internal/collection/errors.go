// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package collection

import (
	"github.com/samber/oops"
)

// Error codes for collection and rule lifecycle failures. The rule-specific
// codes live here so every rule implementation, including ones outside this
// module, reports them the same way.
const (
	CodeDuplicateProperty    = "COLLECTION_DUPLICATE_PROPERTY"
	CodePropertyNotFound     = "COLLECTION_PROPERTY_NOT_FOUND"
	CodeCascadeDepthExceeded = "COLLECTION_CASCADE_DEPTH_EXCEEDED"
	CodeAlreadyInitialized   = "RULE_ALREADY_INITIALIZED"
	CodeOverlappingTargets   = "RULE_OVERLAPPING_TARGETS"
	CodeIncompatibleRange    = "RULE_INCOMPATIBLE_RANGE"
	CodeSameProperty         = "RULE_SAME_PROPERTY"
	CodeCycleDetected        = "RULE_CYCLE_DETECTED"
	CodeInvalidTargets       = "RULE_INVALID_TARGETS"
	CodeScriptFailed         = "RULE_SCRIPT_FAILED"
)

func errDuplicate(names []string) error {
	return oops.Code(CodeDuplicateProperty).
		With("names", names).
		Errorf("duplicate property names: %v", names)
}

func errNotFound(name, want string) error {
	return oops.Code(CodePropertyNotFound).
		With("property", name).
		With("want", want).
		Errorf("property %q not found or not a %s", name, want)
}
