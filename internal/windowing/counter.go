package windowing

import "unicode/utf8"

// Counter estimates the prompt cost of one transcript line.
type Counter interface {
	Count(msg string) int
}

// RuneCounter counts runes plus a fixed per-line overhead for the index prefix
// and newline. Deterministic, no tokenizer.
type RuneCounter struct{}

// lineOverhead covers "NN. " and the trailing newline.
const lineOverhead = 4

func (RuneCounter) Count(msg string) int {
	return utf8.RuneCountInString(msg) + lineOverhead
}
