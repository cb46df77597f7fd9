package telemetry

import (
	"os"
)

const defaultArtifactsDir = ".companion"

var (
	debugModeEnabled       bool
	observeEnabled         bool
	persistPayloadsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect.
	debugModeEnabled = os.Getenv("COMPANION_DEBUG") == "1"

	// Observe: default to 1 when debug=1 and COMPANION_OBSERVE_JSON is unset; honour explicit 0/1.
	if v, ok := os.LookupEnv("COMPANION_OBSERVE_JSON"); ok {
		observeEnabled = (v == "1")
	} else {
		observeEnabled = debugModeEnabled
	}

	// Persist payloads: default to 1 when debug=1 and COMPANION_PERSIST_PAYLOADS is unset; honour explicit 0/1.
	if v, ok := os.LookupEnv("COMPANION_PERSIST_PAYLOADS"); ok {
		persistPayloadsEnabled = (v == "1")
	} else {
		persistPayloadsEnabled = debugModeEnabled
	}
}

// DebugModeEnabled reports whether debug mode was enabled at startup.
func DebugModeEnabled() bool { return debugModeEnabled }

// ObserveEnabled reports whether JSONL emission is enabled, considering debug defaults.
func ObserveEnabled() bool {
	// Startup value wins unless a test flips the env to 1 mid-run.
	if os.Getenv("COMPANION_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistPayloadsEnabled reports whether raw prompt and completion text is written to disk.
func PersistPayloadsEnabled() bool {
	if os.Getenv("COMPANION_PERSIST_PAYLOADS") == "1" {
		return true
	}
	return persistPayloadsEnabled
}

// ArtifactsDir is where events.jsonl and payloads/ live.
func ArtifactsDir() string {
	if v := os.Getenv("COMPANION_ARTIFACTS_DIR"); v != "" {
		return v
	}
	return defaultArtifactsDir
}
