package model

// SmokeResult is the outcome of a single /health check.
type SmokeResult struct {
	Payload *HealthPayload
	// Err is set when the call itself failed: transport, HTTP status or undecodable body.
	Err error
}

// Passed reports whether the call succeeded and the payload carried the expected values.
func (r SmokeResult) Passed() bool {
	return r.Err == nil && r.Payload != nil && r.Payload.IsHealthy()
}
