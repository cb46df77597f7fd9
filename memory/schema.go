package memory

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Preference is the per-item contract for user_preferences.
type Preference struct {
	ID               string  `json:"id" jsonschema_description:"Stable identifier, e.g. pref_1"`
	Type             string  `json:"type" jsonschema:"enum=content_style,enum=topics,enum=tools,enum=schedule,enum=misc"`
	Statement        string  `json:"statement" jsonschema_description:"Short durable statement about the user"`
	EvidenceMessages []int   `json:"evidence_messages" jsonschema_description:"0-based indices of supporting messages"`
	Confidence       float64 `json:"confidence" jsonschema:"minimum=0,maximum=1"`
	LastSeen         string  `json:"last_seen" jsonschema_description:"Date the preference was last observed"`
}

// EmotionalPattern is the per-item contract for user_emotional_patterns.
type EmotionalPattern struct {
	ID                    string   `json:"id"`
	Pattern               string   `json:"pattern" jsonschema_description:"Recurring emotional pattern"`
	Triggers              []string `json:"triggers"`
	TypicalIntensity      string   `json:"typical_intensity" jsonschema:"enum=low,enum=medium,enum=high"`
	PreferredSupportStyle string   `json:"preferred_support_style"`
	EvidenceMessages      []int    `json:"evidence_messages"`
	Confidence            float64  `json:"confidence" jsonschema:"minimum=0,maximum=1"`
}

// Fact is the per-item contract for user_facts.
type Fact struct {
	ID               string  `json:"id"`
	Category         string  `json:"category" jsonschema:"enum=bio,enum=work,enum=study,enum=health,enum=relationships,enum=misc"`
	Statement        string  `json:"statement"`
	EvidenceMessages []int   `json:"evidence_messages"`
	Confidence       float64 `json:"confidence" jsonschema:"minimum=0,maximum=1"`
	LastSeen         string  `json:"last_seen"`
}

var (
	schemaOnce sync.Once
	schemaText string
)

// DefaultSchema returns the JSON Schema of the memory document, generated
// from Preference, EmotionalPattern and Fact.
func DefaultSchema() string {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{Anonymous: true, DoNotReference: true}
		props := orderedmap.New[string, *jsonschema.Schema]()
		props.Set(KeyPreferences, list(r, &Preference{}))
		props.Set(KeyEmotionalPatterns, list(r, &EmotionalPattern{}))
		props.Set(KeyFacts, list(r, &Fact{}))

		root := &jsonschema.Schema{
			Version:              jsonschema.Version,
			Type:                 "object",
			Properties:           props,
			Required:             []string{KeyPreferences, KeyEmotionalPatterns, KeyFacts},
			AdditionalProperties: jsonschema.FalseSchema,
		}
		b, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			panic("memory: marshal schema: " + err.Error())
		}
		schemaText = string(b)
	})
	return schemaText
}

func list(r *jsonschema.Reflector, v any) *jsonschema.Schema {
	item := r.Reflect(v)
	item.Version = ""
	return &jsonschema.Schema{Type: "array", Items: item}
}
