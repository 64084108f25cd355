// Package channel implements Channel Definitions, the Channel Program
// builder, and channel runtime state (spec.md §3, §4.D).
package channel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Type is the ordering discipline for a channel's source items.
type Type string

const (
	TypeSequential Type = "sequential"
	TypeShuffle    Type = "shuffle"
)

// Definition is one entry of the channel-definitions file.
type Definition struct {
	Type  Type     `json:"type"`
	Name  string   `json:"name"`
	Slug  string   `json:"slug"`
	Paths []string `json:"paths"`
}

func (d Definition) validate() error {
	if d.Type != TypeSequential && d.Type != TypeShuffle {
		return fmt.Errorf("channel: unknown definition type %q for slug %q", d.Type, d.Slug)
	}
	if d.Slug == "" {
		return fmt.Errorf("channel: definition missing slug (name %q)", d.Name)
	}
	return nil
}

// defaultDefinitions is used when the definitions file does not exist
// (spec.md §6: "If missing, the system creates a one-element default
// channel").
func defaultDefinitions() []Definition {
	return []Definition{
		{Type: TypeShuffle, Name: "Example Channel", Slug: "example", Paths: []string{"/media"}},
	}
}

// LoadDefinitions reads and validates the channel-definitions JSON array at
// path. A missing file yields the single default channel; an unreadable or
// malformed file is an error so the caller can keep its prior state in
// effect (spec.md §7: "Definitions file unreadable or invalid JSON").
func LoadDefinitions(path string) ([]Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultDefinitions(), nil
		}
		return nil, fmt.Errorf("channel: read definitions: %w", err)
	}

	var defs []Definition
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("channel: parse definitions: %w", err)
	}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, err
		}
	}
	if len(defs) == 0 {
		return defaultDefinitions(), nil
	}
	return defs, nil
}
