// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package scenario_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
	"github.com/holomush/propcore/pkg/errutil"
)

var _ = Describe("Collection lifecycle", func() {
	var c *collection.Collection

	BeforeEach(func() {
		data, err := os.ReadFile("../../../internal/definition/testdata/shadow.yaml")
		Expect(err).NotTo(HaveOccurred())
		c = build(string(data))
	})

	It("clones to an equal but independent collection", func() {
		clone, err := c.Clone()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(clone.Close)

		Expect(clone.Values()).To(Equal(c.Values()))

		apply(clone, "set Link = true; set Spread = 5")
		Expect(value(clone, "Spread")).To(Equal(5))
		Expect(value(c, "Spread")).To(Equal(2))
	})

	It("keeps rules live in the clone", func() {
		clone, err := c.Clone()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(clone.Close)

		apply(clone, "set Blur.Min = 4")
		Expect(value(clone, "Blur.Max")).To(Equal(4.0))
		Expect(value(c, "Blur.Max")).To(Equal(1.0))
	})

	It("copies compatible values between collections", func() {
		other := build(`
version: 1.0.0
name: partial
properties:
  - {name: Spread, kind: int, default: 9, max: 10}
  - {name: Label, kind: double}
  - {name: Blur.Min, kind: double, default: 3, max: 5}
`)
		Expect(c.CopyCompatibleValuesFrom(other, false)).To(Succeed())

		Expect(value(c, "Spread")).To(Equal(9))
		Expect(value(c, "Label")).To(Equal("shadow"))
		Expect(value(c, "Blur.Min")).To(Equal(3.0))
		Expect(value(c, "Blur.Max")).To(Equal(3.0))
	})

	It("refuses to copy into a rule-locked property unless asked to", func() {
		other := build(`
version: 1.0.0
name: locked
properties:
  - {name: Radius, kind: int, default: 7, max: 10}
`)
		Expect(value(c, "Radius")).To(Equal(3))

		err := c.CopyCompatibleValuesFrom(other, false)
		Expect(errutil.HasCode(err, property.CodeReadOnly)).To(BeTrue())
		Expect(value(c, "Radius")).To(Equal(3))

		Expect(c.CopyCompatibleValuesFrom(other, true)).To(Succeed())
		Expect(value(c, "Radius")).To(Equal(7))
		Expect(value(c, "Area")).To(Equal(14))
		Expect(readOnly(c, "Radius")).To(BeTrue())
	})

	It("merges disjoint collections with their rules", func() {
		extra := build(minMaxPair)

		merged, err := collection.Merge(c, extra)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(merged.Close)

		Expect(merged.Len()).To(Equal(c.Len() + extra.Len()))
		apply(merged, "set Min = 50")
		Expect(value(merged, "Max")).To(Equal(50.0))
		Expect(value(extra, "Max")).To(Equal(8.0))
	})

	It("reports named changes for rule-driven writes", func() {
		var changed []string
		sub := c.OnPropertyChanged(func(name string) error {
			changed = append(changed, name)
			return nil
		})
		DeferCleanup(sub.Cancel)

		apply(c, "set Blur.Max = 0.05")
		Expect(changed).To(ContainElements("Blur.Max", "Blur.Min"))
	})
})
