// Package provider implements completion.Client on top of the vendor SDKs.
//
// Contract:
//   - One request per Generate; SDK-level retries are disabled.
//   - Returned text is whitespace-trimmed.
//   - API keys are passed in explicitly; nothing is read from the environment here.
//   - New wraps the selected client with Instrument for telemetry.
package provider
