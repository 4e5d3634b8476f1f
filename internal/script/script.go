// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
)

// CodeParse marks scripts that do not match the grammar.
const CodeParse = "SCRIPT_PARSE"

var parser *participle.Parser[Script]

func init() {
	var err error
	parser, err = NewParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build script parser: %v", err))
	}
}

// Parse parses script text. name is used in error positions.
func Parse(name, text string) (*Script, error) {
	s, err := parser.ParseString(name, text)
	if err != nil {
		errb := oops.Code(CodeParse).With("script", name)
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			errb = errb.With("line", pos.Line).With("column", pos.Column)
		}
		return nil, errb.Wrapf(err, "parse script")
	}
	return s, nil
}

// Run parses text and applies it to c.
func Run(c *collection.Collection, name, text string) error {
	s, err := Parse(name, text)
	if err != nil {
		return err
	}
	return Apply(c, s)
}

// Apply executes statements in order and stops at the first failure. The
// returned error keeps the underlying code and adds the statement position.
func Apply(c *collection.Collection, s *Script) error {
	for i, stmt := range s.Statements {
		if err := stmt.apply(c); err != nil {
			return oops.
				With("statement", i).
				With("line", stmt.Pos.Line).
				Wrapf(err, "statement %d (line %d)", i+1, stmt.Pos.Line)
		}
	}
	return nil
}

func (s *Statement) apply(c *collection.Collection) error {
	switch {
	case s.Set != nil:
		p, err := collection.As[property.Property](c, s.Set.Target.Name)
		if err != nil {
			return err
		}
		return p.SetValue(s.Set.Value.Literal())
	case s.Lock != nil:
		return setReadOnly(c, s.Lock.Name, true)
	case s.Unlock != nil:
		return setReadOnly(c, s.Unlock.Name, false)
	case s.Reset != nil:
		p, err := collection.As[property.Property](c, s.Reset.Name)
		if err != nil {
			return err
		}
		return p.Reset()
	}
	return nil
}

func setReadOnly(c *collection.Collection, name string, readOnly bool) error {
	p, err := collection.As[property.Property](c, name)
	if err != nil {
		return err
	}
	return p.SetReadOnly(readOnly)
}

// Literal returns the Go value a property write receives: bool, float64,
// string or property.Pair[float64].
func (v *Value) Literal() any {
	switch {
	case v.Pair != nil:
		return property.Pair[float64]{X: v.Pair.X, Y: v.Pair.Y}
	case v.Bool != nil:
		return bool(*v.Bool)
	case v.Number != nil:
		return *v.Number
	case v.String != nil:
		return *v.String
	}
	return nil
}
