// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/holomush/propcore/internal/property"
)

// propertyState is the printed form of one property.
type propertyState struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Value    any    `json:"value"`
	ReadOnly bool   `json:"read_only"`
}

func stateOf(props []property.Property) []propertyState {
	states := make([]propertyState, 0, len(props))
	for _, p := range props {
		states = append(states, propertyState{
			Name:     p.Name(),
			Kind:     p.Kind().String(),
			Value:    printable(p),
			ReadOnly: p.ReadOnly(),
		})
	}
	return states
}

// imageSize stands in for image values, which are not printed.
type imageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s imageSize) String() string {
	return fmt.Sprintf("<image %dx%d>", s.Width, s.Height)
}

func printable(p property.Property) any {
	switch v := p.Value().(type) {
	case image.Image:
		if v == nil {
			return nil
		}
		b := v.Bounds()
		return imageSize{Width: b.Dx(), Height: b.Dy()}
	case nil:
		return nil
	default:
		return v
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func writeTable(w io.Writer, states []propertyState) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVALUE\tREAD-ONLY")
	for _, s := range states {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", s.Name, s.Kind, formatValue(s.Value), s.ReadOnly)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
