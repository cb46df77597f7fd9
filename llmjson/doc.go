// Package llmjson recovers a single JSON object from free-form LLM output.
//
// Models asked for "only JSON" still wrap answers in prose or markdown
// fences. The recovery heuristic:
//   - empty or whitespace-only text is ErrEmptyResponse;
//   - text starting with a ``` fence line has its first and last lines
//     removed (one fence pair, never searched for elsewhere);
//   - the candidate is the span from the first '{' to the last '}';
//   - the candidate must decode as a JSON object.
//
// The outermost-brace span is fooled by literal braces in leading prose.
// ParseStrict rejects such candidates instead of handing them to the decoder.
package llmjson
