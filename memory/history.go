package memory

import (
	"encoding/json"
	"errors"
	"os"
)

// RecentLimit is the soft number of most recent user messages an extraction should see.
const RecentLimit = 30

// Message is a minimal persisted view of a chat turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// LoadHistory reads a JSON array of messages. A missing file yields nil, nil.
func LoadHistory(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveHistory writes msgs as an indented JSON array.
func SaveHistory(path string, msgs []Message) error {
	b, err := json.MarshalIndent(msgs, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// UserMessages returns the text of the most recent limit user turns, oldest
// first. limit <= 0 keeps every user turn.
func UserMessages(msgs []Message, limit int) []string {
	var out []string
	for _, m := range msgs {
		if m.Role == "user" {
			out = append(out, m.Text)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
