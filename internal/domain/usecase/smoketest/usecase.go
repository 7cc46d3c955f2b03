package smoketest

import (
	"context"

	"timebank-smoke/internal/domain/model"
)

type UseCase interface {
	// WaitForServer blocks for the configured startup delay or until ctx is done.
	WaitForServer(ctx context.Context) error
	// Run calls the health endpoint once and validates its payload.
	Run(ctx context.Context) model.SmokeResult
}
