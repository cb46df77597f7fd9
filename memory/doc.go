// Package memory extracts a durable user profile from a message history by
// asking a completion service for a JSON document.
//
// Flow:
//
//	user messages -> prompt (numbered transcript + schema + rules)
//	             -> completion.Client -> llmjson -> Memory -> Summary
//
// Extraction model:
//   - Memory holds three ordered lists: preferences, emotional patterns, facts.
//   - Items are passed through as the model returned them unless strict item
//     validation is enabled, in which case malformed items are quarantined.
//   - Each Extract call produces a fresh Memory; nothing is persisted or merged.
//   - No retries: a malformed completion fails the call with ErrExtractionFailed.
//
// History files (LoadHistory/SaveHistory) are input plumbing for the CLI; they
// store chat turns, never extracted memories.
package memory
