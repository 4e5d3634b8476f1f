// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package scenario_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/definition"
	"github.com/holomush/propcore/internal/property"
	"github.com/holomush/propcore/internal/script"
	"github.com/holomush/propcore/pkg/errutil"
)

const linkedPair = `
version: 1.0.0
name: linked
properties:
  - {name: Gate, kind: bool}
  - {name: A, kind: int, default: 1, min: 0, max: 10}
  - {name: B, kind: int, default: 1, min: 0, max: 10}
rules:
  - type: link_values
    targets: [A, B]
    source: Gate
`

const minMaxPair = `
version: 1.0.0
name: bounds
properties:
  - {name: Min, kind: double, default: 2, min: 0, max: 100}
  - {name: Max, kind: double, default: 8, min: 0, max: 100}
rules:
  - {type: soft_min_max, min: Min, max: Max}
`

var _ = Describe("Link values based on boolean", func() {
	var c *collection.Collection

	BeforeEach(func() {
		c = build(linkedPair)
	})

	It("propagates edits while the gate is open", func() {
		apply(c, "set Gate = true; set A = 5")
		Expect(value(c, "B")).To(Equal(5))
	})

	It("stops propagating once the gate closes", func() {
		apply(c, "set Gate = true; set A = 5")
		apply(c, "set Gate = false; set A = 9")

		Expect(value(c, "A")).To(Equal(9))
		Expect(value(c, "B")).To(Equal(5))
	})

	It("syncs the last edited target when the gate reopens", func() {
		apply(c, "set B = 7; set Gate = true")
		Expect(value(c, "A")).To(Equal(7))
	})

	It("writes through read-only targets and keeps them locked", func() {
		apply(c, "lock B; set Gate = true; set A = 4")

		Expect(value(c, "B")).To(Equal(4))
		Expect(readOnly(c, "B")).To(BeTrue())
	})

	It("rejects a second rule overlapping the same targets", func() {
		doc, err := definition.Parse([]byte(linkedPair + `
  - type: link_values
    targets: [B, A]
    source: Gate
`))
		Expect(err).NotTo(HaveOccurred())

		_, err = definition.Build(doc)
		Expect(errutil.HasCode(err, collection.CodeOverlappingTargets)).To(BeTrue())
	})
})

var _ = Describe("Soft mutually bound min/max", func() {
	It("pushes the opposite bound in both directions", func() {
		c := build(minMaxPair)

		apply(c, "set Min = 10")
		Expect(value(c, "Max")).To(Equal(10.0))

		apply(c, "set Max = 3")
		Expect(value(c, "Min")).To(Equal(3.0))
	})

	It("leaves consistent edits alone", func() {
		c := build(minMaxPair)

		apply(c, "set Min = 4; set Max = 6")
		Expect(value(c, "Min")).To(Equal(4.0))
		Expect(value(c, "Max")).To(Equal(6.0))
	})

	It("rejects a direct back edge", func() {
		doc, err := definition.Parse([]byte(minMaxPair + `
  - {type: soft_min_max, min: Max, max: Min}
`))
		Expect(err).NotTo(HaveOccurred())

		_, err = definition.Build(doc)
		Expect(errutil.HasCode(err, collection.CodeCycleDetected)).To(BeTrue())
	})

	DescribeTable("rejects a chain through a shared property in either order",
		func(first, second string) {
			doc, err := definition.Parse([]byte(`
version: 1.0.0
name: chain
properties:
  - {name: Lo, kind: int, default: 1, max: 10}
  - {name: Mid, kind: int, default: 5, max: 10}
  - {name: Hi, kind: int, default: 9, max: 10}
rules:
` + first + second))
			Expect(err).NotTo(HaveOccurred())

			_, err = definition.Build(doc)
			Expect(errutil.HasCode(err, collection.CodeCycleDetected)).To(BeTrue())
		},
		Entry("dependency order",
			"  - {type: soft_min_max, min: Lo, max: Mid}\n",
			"  - {type: soft_min_max, min: Mid, max: Hi}\n"),
		Entry("dependents first",
			"  - {type: soft_min_max, min: Mid, max: Hi}\n",
			"  - {type: soft_min_max, min: Lo, max: Mid}\n"),
	)
})

var _ = Describe("Read-only bound to boolean", func() {
	DescribeTable("maps the lock to the target's read-only flag",
		func(inverse bool, lock bool, want bool) {
			c := build(`
version: 1.0.0
name: lock
properties:
  - {name: Lock, kind: bool}
  - {name: Target, kind: string, default: text}
rules:
  - type: read_only_bound_to_boolean
    target: Target
    source: Lock
    inverse: ` + map[bool]string{true: "true", false: "false"}[inverse])

			if lock {
				apply(c, "set Lock = true")
			}
			Expect(readOnly(c, "Target")).To(Equal(want))
		},
		Entry("direct, unlocked", false, false, false),
		Entry("direct, locked", false, true, true),
		Entry("inverse, unlocked", true, false, true),
		Entry("inverse, locked", true, true, false),
	)

	It("blocks writes while the target is locked", func() {
		c := build(`
version: 1.0.0
name: lock
properties:
  - {name: Lock, kind: bool, default: true}
  - {name: Target, kind: int, max: 10}
rules:
  - {type: read_only_bound_to_boolean, target: Target, source: Lock}
`)
		err := script.Run(c, "scenario", "set Target = 3")
		Expect(errutil.HasCode(err, property.CodeReadOnly)).To(BeTrue())

		apply(c, "set Lock = false; set Target = 3")
		Expect(value(c, "Target")).To(Equal(3))
	})
})

var _ = Describe("Cascade depth limit", func() {
	It("stops a runaway script rule", func() {
		c := build(`
version: 1.0.0
name: runaway
properties:
  - {name: N, kind: int, max: 1000000}
rules:
  - type: lua
    watch: [N]
    script: |
      set("N", get("N") + 1)
`, collection.WithMaxCascadeDepth(8))

		err := script.Run(c, "scenario", "set N = 1")
		Expect(errutil.HasCode(err, collection.CodeCascadeDepthExceeded)).To(BeTrue())
	})
})
