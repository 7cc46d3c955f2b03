package api

import (
	"context"

	"timebank-smoke/internal/domain/model"
)

// HealthGateway defines the call to the /health endpoint of the server under test
type HealthGateway interface {
	// Check calls the endpoint once and returns the decoded payload.
	// Transport failures and non-2xx statuses are returned as they come from the HTTP client,
	// bodies that are not a JSON object as *InvalidPayloadError.
	Check(ctx context.Context) (*model.HealthPayload, error)
}
