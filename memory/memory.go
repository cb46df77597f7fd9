package memory

import (
	"encoding/json"
	"fmt"
)

// Top-level keys of the memory document, in canonical order.
const (
	KeyPreferences       = "user_preferences"
	KeyEmotionalPatterns = "user_emotional_patterns"
	KeyFacts             = "user_facts"
)

// Item is one model-returned entry. Values keep their decoded JSON types
// (numbers are float64).
type Item map[string]any

// Text returns the string stored under key.
func (it Item) Text(key string) (string, bool) {
	s, ok := it[key].(string)
	return s, ok
}

// Memory is the structured profile produced by one extraction.
type Memory struct {
	Preferences       []Item `json:"user_preferences"`
	EmotionalPatterns []Item `json:"user_emotional_patterns"`
	Facts             []Item `json:"user_facts"`
}

// Empty reports whether all three lists are empty.
func (m Memory) Empty() bool {
	return len(m.Preferences) == 0 && len(m.EmotionalPatterns) == 0 && len(m.Facts) == 0
}

// Clone returns a deep copy of m, for callers that keep a Memory across
// extractions and edit it.
func (m Memory) Clone() Memory {
	return Memory{
		Preferences:       cloneItems(m.Preferences),
		EmotionalPatterns: cloneItems(m.EmotionalPatterns),
		Facts:             cloneItems(m.Facts),
	}
}

// MarshalJSON encodes nil lists as [] rather than null.
func (m Memory) MarshalJSON() ([]byte, error) {
	type wire Memory
	return json.Marshal(wire{
		Preferences:       orEmpty(m.Preferences),
		EmotionalPatterns: orEmpty(m.EmotionalPatterns),
		Facts:             orEmpty(m.Facts),
	})
}

// UnmarshalJSON accepts missing or null lists as empty.
func (m *Memory) UnmarshalJSON(b []byte) error {
	type wire Memory
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*m = Memory{
		Preferences:       orEmpty(w.Preferences),
		EmotionalPatterns: orEmpty(w.EmotionalPatterns),
		Facts:             orEmpty(w.Facts),
	}
	return nil
}

// ToJSON renders m as indented JSON with keys in canonical order.
func (m Memory) ToJSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// FromJSON decodes a document produced by ToJSON.
func FromJSON(b []byte) (Memory, error) {
	var m Memory
	if err := json.Unmarshal(b, &m); err != nil {
		return Memory{}, err
	}
	return m, nil
}

// fromObject materializes a decoded completion. Missing or null keys become
// empty lists and a list that is not an array is rejected. Elements that are
// not objects are left out and reported as issues.
func fromObject(obj map[string]any) (Memory, []Issue, error) {
	var (
		m     Memory
		stray []Issue
	)
	for _, f := range []struct {
		key string
		dst *[]Item
	}{
		{KeyPreferences, &m.Preferences},
		{KeyEmotionalPatterns, &m.EmotionalPatterns},
		{KeyFacts, &m.Facts},
	} {
		items, issues, err := itemList(f.key, obj[f.key])
		if err != nil {
			return Memory{}, nil, err
		}
		*f.dst = items
		stray = append(stray, issues...)
	}
	return m, stray, nil
}

func itemList(key string, v any) ([]Item, []Issue, error) {
	if v == nil {
		return []Item{}, nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s, want array", ErrUnexpectedShape, key, jsonKind(v))
	}
	items := make([]Item, 0, len(arr))
	var issues []Issue
	for i, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			issues = append(issues, Issue{Category: key, Index: i, Reason: "item is " + jsonKind(el) + ", want object"})
			continue
		}
		items = append(items, Item(obj))
	}
	return items, issues, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func orEmpty(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item(cloneValue(map[string]any(it)).(map[string]any))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		c := make(map[string]any, len(t))
		for k, x := range t {
			c[k] = cloneValue(x)
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, x := range t {
			c[i] = cloneValue(x)
		}
		return c
	default:
		return v
	}
}
