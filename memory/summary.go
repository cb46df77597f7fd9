package memory

import (
	"strings"

	"github.com/samber/lo"
)

// Summary renders a short multi-line digest of m: up to three preferences,
// two emotional patterns and three facts. Empty categories are omitted and
// an empty Memory yields "".
func Summary(m Memory) string {
	var lines []string
	add := func(label string, items []Item, key string, n int) {
		texts := lo.FilterMap(items, func(it Item, _ int) (string, bool) {
			return it.Text(key)
		})
		if len(texts) == 0 {
			return
		}
		if len(texts) > n {
			texts = texts[:n]
		}
		lines = append(lines, label+": "+strings.Join(texts, "; "))
	}
	add("Preferences", m.Preferences, "statement", 3)
	add("Emotional patterns", m.EmotionalPatterns, "pattern", 2)
	add("Facts", m.Facts, "statement", 3)
	return strings.Join(lines, "\n")
}
