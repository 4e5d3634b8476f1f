// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package collection owns groups of properties and the rules that keep them
// consistent.
//
// A Collection clones every property and rule it is built from, so callers'
// templates are never aliased. Rules are initialized against the new
// collection in list order; afterwards every property change is republished
// as a collection-level PropertyChanged event carrying the property name.
package collection

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/event"
	"github.com/holomush/propcore/internal/property"
)

// Option configures a Collection. Options are carried over by Clone and Merge.
type Option func(*Collection)

// WithLogger sets the logger used for rule lifecycle records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxCascadeDepth bounds how deeply rule-triggered writes may nest.
// Zero, the default, leaves cascades unbounded.
func WithMaxCascadeDepth(depth int) Option {
	return func(c *Collection) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// Collection is an ordered, name-keyed set of properties plus an ordered
// list of rules. It is not safe for concurrent use.
type Collection struct {
	id       ulid.ULID
	props    []property.Property
	index    map[string]int
	rules    []Rule
	changed  event.Event[string]
	opts     []Option
	logger   *slog.Logger
	maxDepth int
	depth    int
}

// New builds a collection from property and rule templates. Property names
// must be unique. Each rule is cloned and initialized against the new
// collection; the first initialization error aborts construction.
func New(props []property.Property, rules []Rule, opts ...Option) (*Collection, error) {
	c := &Collection{
		id:     ulid.Make(),
		index:  make(map[string]int, len(props)),
		opts:   slices.Clone(opts),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("collection_id", c.id.String())

	var dups []string
	for _, p := range props {
		if _, exists := c.index[p.Name()]; exists {
			dups = append(dups, p.Name())
			continue
		}
		c.index[p.Name()] = len(c.props)
		c.props = append(c.props, p.Clone())
	}
	if len(dups) > 0 {
		return nil, errDuplicate(dups)
	}

	for _, r := range rules {
		c.rules = append(c.rules, r.Clone())
	}
	for i, r := range c.rules {
		if err := r.Initialize(c); err != nil {
			_ = c.Close()
			return nil, oops.With("rule", r.Type()).With("rule_index", i).Wrapf(err, "initialize %s rule", r.Type())
		}
		c.logger.Debug("rule initialized", "rule", r.Type(), "rule_index", i)
	}

	for _, p := range c.props {
		p.OnValueChanged(c.relay)
		p.OnReadOnlyChanged(c.relay)
	}
	return c, nil
}

func (c *Collection) relay(p property.Property) error {
	PropertyChangesTotal.Inc()
	return c.changed.Fire(p.Name())
}

// ID identifies this collection instance in logs.
func (c *Collection) ID() ulid.ULID { return c.id }

// Logger returns the collection's logger, already tagged with its ID.
func (c *Collection) Logger() *slog.Logger { return c.logger }

// Len returns the number of properties.
func (c *Collection) Len() int { return len(c.props) }

// Get returns the named property.
func (c *Collection) Get(name string) (property.Property, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.props[i], true
}

// Names returns property names in insertion order.
func (c *Collection) Names() []string {
	names := make([]string, len(c.props))
	for i, p := range c.props {
		names[i] = p.Name()
	}
	return names
}

// Properties returns the properties in insertion order.
func (c *Collection) Properties() []property.Property {
	return slices.Clone(c.props)
}

// Rules returns the owned rules in initialization order.
func (c *Collection) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Values snapshots every property's current value by name.
func (c *Collection) Values() map[string]any {
	values := make(map[string]any, len(c.props))
	for _, p := range c.props {
		values[p.Name()] = p.Value()
	}
	return values
}

// Match returns the properties whose names match a glob pattern, in
// insertion order.
func (c *Collection) Match(pattern string) ([]property.Property, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, oops.With("pattern", pattern).Wrapf(err, "compile property pattern")
	}
	var matched []property.Property
	for _, p := range c.props {
		if g.Match(p.Name()) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// OnPropertyChanged subscribes to value and read-only changes of every
// property, identified by name.
func (c *Collection) OnPropertyChanged(h func(name string) error) event.Subscription {
	return c.changed.Subscribe(h)
}

// Clone builds an independent collection with freshly cloned properties and
// rules. Rules are re-initialized against the clone.
func (c *Collection) Clone() (*Collection, error) {
	return New(c.props, c.rules, c.opts...)
}

// Merge unions two collections whose property names are disjoint. Rules of
// both are cloned and re-initialized against the result, first a's then b's.
// The result uses a's options.
func Merge(a, b *Collection) (*Collection, error) {
	var dups []string
	for _, p := range b.props {
		if _, exists := a.index[p.Name()]; exists {
			dups = append(dups, p.Name())
		}
	}
	if len(dups) > 0 {
		return nil, errDuplicate(dups)
	}

	props := make([]property.Property, 0, len(a.props)+len(b.props))
	props = append(props, a.props...)
	props = append(props, b.props...)
	rules := make([]Rule, 0, len(a.rules)+len(b.rules))
	rules = append(rules, a.rules...)
	rules = append(rules, b.rules...)
	return New(props, rules, a.opts...)
}

// CopyCompatibleValuesFrom copies values from source, in source order, for
// every property that exists here under the same name with the same value
// type. Writing a read-only destination fails with PROPERTY_READ_ONLY unless
// ignoreReadOnly is set, in which case the flag is cleared for the write and
// then restored. The first failure stops the copy; earlier values stay copied.
func (c *Collection) CopyCompatibleValuesFrom(source *Collection, ignoreReadOnly bool) error {
	for _, src := range source.props {
		dst, ok := c.Get(src.Name())
		if !ok || dst.Kind() != src.Kind() || dst.ValueType() != src.ValueType() {
			continue
		}
		var err error
		if dst.ReadOnly() && ignoreReadOnly {
			err = copyThroughReadOnly(dst, src.Value())
		} else {
			err = dst.SetValue(src.Value())
		}
		if err != nil {
			return oops.With("property", dst.Name()).Wrapf(err, "copy value")
		}
	}
	return nil
}

// copyThroughReadOnly clears the flag for the write and restores it, which
// fires ReadOnlyChanged twice.
func copyThroughReadOnly(dst property.Property, value any) (err error) {
	if err := dst.SetReadOnly(false); err != nil {
		return err
	}
	defer func() {
		if restoreErr := dst.SetReadOnly(true); err == nil {
			err = restoreErr
		}
	}()
	return dst.SetValue(value)
}

// Cascade runs a rule-triggered write. With a cascade cap configured,
// writes nested deeper than the cap fail instead of recursing further.
func (c *Collection) Cascade(ruleType string, write func() error) error {
	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		CascadeDepthExceededTotal.Inc()
		c.logger.Warn("rule cascade depth exceeded", "rule", ruleType, "max_depth", c.maxDepth)
		return oops.Code(CodeCascadeDepthExceeded).
			With("rule", ruleType).
			With("max_depth", c.maxDepth).
			Errorf("rule cascade exceeded depth %d", c.maxDepth)
	}

	c.depth++
	defer func() { c.depth-- }()
	return write()
}

// Close releases resources held by rules that implement io.Closer.
func (c *Collection) Close() error {
	var errs []error
	for _, r := range c.rules {
		if closer, ok := r.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// As returns the named property as the concrete type P.
func As[P property.Property](c *Collection, name string) (P, error) {
	var zero P
	p, ok := c.Get(name)
	if !ok {
		return zero, errNotFound(name, typeName[P]())
	}
	typed, ok := p.(P)
	if !ok {
		return zero, errNotFound(name, typeName[P]())
	}
	return typed, nil
}

func typeName[P any]() string {
	return fmt.Sprint(reflect.TypeFor[P]())
}
