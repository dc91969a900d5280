// Package normalize turns free-form user input such as allergy and condition
// lists into canonical lowercase tokens.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Name lowercases and trims a single term.
func Name(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Names applies Name to every element, keeping order and duplicates.
func Names(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, Name(s))
	}
	return out
}

// TermSet is an ordered set of lowercase, trimmed, non-empty terms. On the
// wire it accepts either a comma separated string or a list of strings and
// always encodes as a list.
type TermSet []string

// Parse splits a comma separated string into a TermSet.
func Parse(raw string) TermSet {
	return FromList(strings.Split(raw, ","))
}

// FromList normalizes a list of terms. List elements are not split on commas.
func FromList(items []string) TermSet {
	seen := make(map[string]struct{}, len(items))
	out := make(TermSet, 0, len(items))
	for _, item := range items {
		term := Name(item)
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

// Contains reports whether term, after normalization, is in the set.
func (s TermSet) Contains(term string) bool {
	term = Name(term)
	for _, t := range s {
		if t == term {
			return true
		}
	}
	return false
}

// Strings returns the terms as a plain slice, never nil.
func (s TermSet) Strings() []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}

func (s TermSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *TermSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = TermSet{}
		return nil
	}
	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = Parse(raw)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("term list must contain only strings: %w", err)
		}
		*s = FromList(items)
		return nil
	default:
		return fmt.Errorf("term list must be a string or a list of strings")
	}
}
