// Package persona holds the closed set of reply styles and the pipelines that
// condition a completion on one of them.
//
// Resolution is fail-soft: an unknown name resolves to Default and never
// aborts a rewrite. The profile table is embedded, loaded once, and read-only.
package persona
