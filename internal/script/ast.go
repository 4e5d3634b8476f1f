// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package script parses and applies property edit scripts:
//
//	set Radius = 5;
//	set Offset = (1.5, -2);
//	lock Radius; unlock Radius;
//	reset "Drop Shadow";
//
// Statements are applied in order through the normal property write
// pipeline, so rules react exactly as they would to any other writer.
package script

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][\w.]*`},
	{Name: "Punct", Pattern: `[(),;=]`},
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Script is a sequence of statements.
type Script struct {
	Pos        lexer.Position `parser:""`
	Statements []*Statement   `parser:"@@*"`
}

// Statement is one edit. The trailing semicolon is optional.
type Statement struct {
	Pos    lexer.Position `parser:""`
	Set    *Assignment    `parser:"(   @@"`
	Lock   *Target        `parser:"  | 'lock' @@"`
	Unlock *Target        `parser:"  | 'unlock' @@"`
	Reset  *Target        `parser:"  | 'reset' @@ ) ';'?"`
}

// Assignment matches: "set" target "=" value
type Assignment struct {
	Pos    lexer.Position `parser:""`
	Target *Target        `parser:"'set' @@ '='"`
	Value  *Value         `parser:"@@"`
}

// Target names a property, bare or quoted.
type Target struct {
	Pos  lexer.Position `parser:""`
	Name string         `parser:"@(Ident | String)"`
}

// Value is a literal.
type Value struct {
	Pos    lexer.Position `parser:""`
	Pair   *Pair          `parser:"  @@"`
	Bool   *Boolean       `parser:"| @('true' | 'false')"`
	Number *float64       `parser:"| @Number"`
	String *string        `parser:"| @String"`
}

// Pair matches: "(" number "," number ")"
type Pair struct {
	X float64 `parser:"'(' @Number"`
	Y float64 `parser:"',' @Number ')'"`
}

// Boolean captures true/false keywords.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

// NewParser constructs a participle parser for the script grammar.
func NewParser() (*participle.Parser[Script], error) {
	return participle.Build[Script](
		participle.Lexer(scriptLexer),
		participle.Unquote("String"),
	)
}
