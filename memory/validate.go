package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Issue describes an item removed by Validate.
type Issue struct {
	Category string
	Index    int
	ID       string
	Reason   string
}

func (i Issue) String() string {
	if i.ID == "" {
		return fmt.Sprintf("%s[%d]: %s", i.Category, i.Index, i.Reason)
	}
	return fmt.Sprintf("%s[%d] (%s): %s", i.Category, i.Index, i.ID, i.Reason)
}

type enumField struct {
	key     string
	allowed []string
}

type itemRule struct {
	strings     []string
	enum        enumField
	stringLists []string
}

var (
	preferenceRule = itemRule{
		strings: []string{"id", "statement", "last_seen"},
		enum:    enumField{"type", []string{"content_style", "topics", "tools", "schedule", "misc"}},
	}
	emotionalPatternRule = itemRule{
		strings:     []string{"id", "pattern", "preferred_support_style"},
		enum:        enumField{"typical_intensity", []string{"low", "medium", "high"}},
		stringLists: []string{"triggers"},
	}
	factRule = itemRule{
		strings: []string{"id", "statement", "last_seen"},
		enum:    enumField{"category", []string{"bio", "work", "study", "health", "relationships", "misc"}},
	}
)

// Validate checks every item against its category contract and returns a
// Memory without the failing items. Evidence indices must be below
// messageCount when messageCount > 0.
func Validate(m Memory, messageCount int) (Memory, []Issue) {
	var issues []Issue
	out := Memory{
		Preferences:       keepValid(KeyPreferences, m.Preferences, preferenceRule, messageCount, &issues),
		EmotionalPatterns: keepValid(KeyEmotionalPatterns, m.EmotionalPatterns, emotionalPatternRule, messageCount, &issues),
		Facts:             keepValid(KeyFacts, m.Facts, factRule, messageCount, &issues),
	}
	return out, issues
}

func keepValid(category string, items []Item, rule itemRule, messageCount int, issues *[]Issue) []Item {
	kept := make([]Item, 0, len(items))
	for i, it := range items {
		b, err := json.Marshal(it)
		if err != nil {
			*issues = append(*issues, Issue{Category: category, Index: i, Reason: err.Error()})
			continue
		}
		doc := gjson.ParseBytes(b)
		if err := rule.check(doc, messageCount); err != nil {
			*issues = append(*issues, Issue{Category: category, Index: i, ID: doc.Get("id").String(), Reason: err.Error()})
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func (r itemRule) check(doc gjson.Result, messageCount int) error {
	for _, k := range r.strings {
		if doc.Get(k).Type != gjson.String {
			return fmt.Errorf("%s must be a string", k)
		}
	}
	if v := doc.Get(r.enum.key); v.Type != gjson.String || !slices.Contains(r.enum.allowed, v.Str) {
		return fmt.Errorf("%s must be one of %s", r.enum.key, strings.Join(r.enum.allowed, ", "))
	}
	for _, k := range r.stringLists {
		v := doc.Get(k)
		if !v.IsArray() {
			return fmt.Errorf("%s must be an array", k)
		}
		for _, el := range v.Array() {
			if el.Type != gjson.String {
				return fmt.Errorf("%s must contain only strings", k)
			}
		}
	}
	if c := doc.Get("confidence"); c.Type != gjson.Number || c.Num < 0 || c.Num > 1 {
		return errors.New("confidence must be a number in [0, 1]")
	}
	ev := doc.Get("evidence_messages")
	if !ev.IsArray() {
		return errors.New("evidence_messages must be an array")
	}
	for _, el := range ev.Array() {
		if el.Type != gjson.Number || el.Num < 0 || el.Num != math.Trunc(el.Num) {
			return fmt.Errorf("evidence index %s is not a non-negative integer", el.Raw)
		}
		if messageCount > 0 && el.Num >= float64(messageCount) {
			return fmt.Errorf("evidence index %d out of range for %d messages", int(el.Num), messageCount)
		}
	}
	return nil
}
