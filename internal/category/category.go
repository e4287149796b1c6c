// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category matches free-text menu categories against a store's
// canonical labels and lays weekly menus out as a category × weekday grid.
package category

import "strings"

// Separator splits a label into its matching part and a display subtitle,
// e.g. "LUNCH|ランチ".
const Separator = "|"

// Key is the normalized matching form of a category label.
type Key string

// Normalize returns the matching key for label: only the segment before the
// first separator, trimmed and lowercased.
func Normalize(label string) Key {
	head, _, _ := strings.Cut(label, Separator)
	return Key(strings.ToLower(strings.TrimSpace(head)))
}

// Label is a parsed category label.
type Label struct {
	Raw      string `json:"raw"`
	Key      Key    `json:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Parse splits label into its title and subtitle and computes its key.
func Parse(label string) Label {
	head, tail, _ := strings.Cut(label, Separator)
	return Label{
		Raw:      label,
		Key:      Normalize(label),
		Title:    strings.TrimSpace(head),
		Subtitle: strings.TrimSpace(tail),
	}
}
