// Package telemetry writes local, opt-in diagnostics for completion calls.
//
// Switches (read once at startup; tests may flip the first two to 1 mid-run):
//   - COMPANION_OBSERVE_JSON=1: append events to <artifacts>/events.jsonl.
//   - COMPANION_PERSIST_PAYLOADS=1: keep raw prompt/completion text under <artifacts>/payloads/.
//   - COMPANION_DEBUG=1: turns both of the above on unless set explicitly.
//   - COMPANION_ARTIFACTS_DIR: artifacts root (default .companion).
//
// Events carry a turn ID taken from the context so that a prompt, its
// completion, and the pipeline outcome can be correlated.
package telemetry
