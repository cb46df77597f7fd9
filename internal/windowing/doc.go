// Package windowing selects the slice of a user message history that is sent
// in one extraction prompt.
//
// Rules:
//   - Messages are scanned newest to oldest; the window is always a suffix.
//   - Limit caps the message count; Budget caps the estimated token total.
//   - A newest message that alone exceeds Budget yields an empty window with
//     OverBudgetNewest set, so callers can fail instead of sending nothing useful.
package windowing
