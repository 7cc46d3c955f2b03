package smoketest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timebank-smoke/internal/domain/gateway/api"
	"timebank-smoke/internal/domain/model"
	"timebank-smoke/pkg/log"
)

type smokeTestUseCase struct {
	healthGateway api.HealthGateway
	startupDelay  time.Duration
}

func NewSmokeTestUseCase(healthGateway api.HealthGateway, startupDelay time.Duration) UseCase {
	return &smokeTestUseCase{
		healthGateway: healthGateway,
		startupDelay:  startupDelay,
	}
}

func (useCase *smokeTestUseCase) WaitForServer(ctx context.Context) error {
	if useCase.startupDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(useCase.startupDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (useCase *smokeTestUseCase) Run(ctx context.Context) model.SmokeResult {
	payload, err := useCase.healthGateway.Check(ctx)
	if err != nil {
		log.Error("health check call failed", zap.Error(err))
		return model.SmokeResult{Err: err}
	}

	result := model.SmokeResult{Payload: payload}
	if !result.Passed() {
		log.Warn("health check payload mismatch",
			zap.String("status", model.FormatValue(payload.Status)),
			zap.String("message", model.FormatValue(payload.Message)),
			zap.String("data", model.FormatValue(payload.Data)),
		)
		return result
	}

	log.Info("health check passed")
	return result
}
