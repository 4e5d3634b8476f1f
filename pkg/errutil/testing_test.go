// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/holomush/propcore/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("PROPERTY_INVALID_VALUE").Errorf("test error")
	errutil.AssertErrorCode(t, err, "PROPERTY_INVALID_VALUE")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("property", "Radius").Errorf("test error")
	errutil.AssertErrorContext(t, err, "property", "Radius")
}
