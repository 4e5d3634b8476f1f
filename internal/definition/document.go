// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package definition loads collection templates from YAML documents.
//
// A document lists property templates and rule templates. Parse checks the
// document against its JSON Schema and format version; Build turns it into a
// live collection.
package definition

import (
	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Error codes for definition documents.
const (
	CodeInvalid = "DEFINITION_INVALID"
	CodeVersion = "DEFINITION_VERSION"
)

// SupportedVersions is the range of document format versions this package reads.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Document is a collection definition file.
type Document struct {
	Version     string         `yaml:"version" json:"version" jsonschema:"description=Document format version (semver),example=1.0.0"`
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Properties  []PropertySpec `yaml:"properties" json:"properties" jsonschema:"minItems=1"`
	Rules       []RuleSpec     `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// PropertySpec is a property template.
type PropertySpec struct {
	Name string `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Kind string `yaml:"kind" json:"kind" jsonschema:"enum=bool,enum=int,enum=double,enum=string,enum=choice,enum=vector,enum=image"`
	// Default is a boolean, number, string or [x, y] pair depending on kind.
	Default   any      `yaml:"default,omitempty" json:"default,omitempty"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	X         *Range   `yaml:"x,omitempty" json:"x,omitempty" jsonschema:"description=Range of the x axis (vector only)"`
	Y         *Range   `yaml:"y,omitempty" json:"y,omitempty" jsonschema:"description=Range of the y axis (vector only)"`
	MaxLength int      `yaml:"max_length,omitempty" json:"max_length,omitempty" jsonschema:"minimum=0,maximum=32767"`
	Choices   []string `yaml:"choices,omitempty" json:"choices,omitempty" jsonschema:"uniqueItems=true"`
	ReadOnly  bool     `yaml:"read_only,omitempty" json:"read_only,omitempty"`
	Policy    string   `yaml:"policy,omitempty" json:"policy,omitempty" jsonschema:"enum=ignore,enum=clamp,enum=error"`
}

// Range bounds one vector axis.
type Range struct {
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// RuleSpec is a rule template. Which fields apply depends on Type.
type RuleSpec struct {
	Type    string   `yaml:"type" json:"type" jsonschema:"enum=read_only_bound_to_boolean,enum=read_only_bound_to_value,enum=link_values,enum=soft_min_max,enum=lua"`
	Target  string   `yaml:"target,omitempty" json:"target,omitempty"`
	Targets []string `yaml:"targets,omitempty" json:"targets,omitempty"`
	Source  string   `yaml:"source,omitempty" json:"source,omitempty"`
	Values  []any    `yaml:"values,omitempty" json:"values,omitempty"`
	Inverse bool     `yaml:"inverse,omitempty" json:"inverse,omitempty"`
	Min     string   `yaml:"min,omitempty" json:"min,omitempty"`
	Max     string   `yaml:"max,omitempty" json:"max,omitempty"`
	Watch   []string `yaml:"watch,omitempty" json:"watch,omitempty"`
	Script  string   `yaml:"script,omitempty" json:"script,omitempty"`
}

// Parse validates data against the document schema, decodes it and checks
// the format version.
func Parse(data []byte) (*Document, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code(CodeInvalid).Wrapf(err, "decode definition")
	}
	if err := doc.CheckVersion(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CheckVersion reports whether the document's version is one this package
// can read.
func (d *Document) CheckVersion() error {
	v, err := semver.StrictNewVersion(d.Version)
	if err != nil {
		return oops.Code(CodeVersion).
			With("version", d.Version).
			Wrapf(err, "definition version %q is not a semantic version", d.Version)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return oops.Wrapf(err, "parse supported version range")
	}
	if !constraint.Check(v) {
		return oops.Code(CodeVersion).
			With("version", d.Version).
			With("supported", SupportedVersions).
			Errorf("definition version %s is outside %s", d.Version, SupportedVersions)
	}
	return nil
}
