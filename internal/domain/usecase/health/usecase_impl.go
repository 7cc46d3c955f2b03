package health

import (
	"errors"
	"net/http"
	"strings"

	"timebank-smoke/internal/domain/model"
	"timebank-smoke/pkg/msg"
)

// Mode selects which /health answer the stub gives.
type Mode string

const (
	ModeHealthy   Mode = "healthy"
	ModeUnhealthy Mode = "unhealthy"
	ModeBroken    Mode = "broken"
	ModeError     Mode = "error"
)

// ParseMode accepts the mode names case-insensitively; empty means healthy.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "":
		return ModeHealthy, nil
	case ModeHealthy, ModeUnhealthy, ModeBroken, ModeError:
		return mode, nil
	default:
		return "", errors.New(msg.GetMessage("health-stub.invalid-mode", value))
	}
}

type healthUseCase struct {
	mode Mode
}

func NewHealthUseCase(mode Mode) UseCase {
	return &healthUseCase{mode: mode}
}

func (useCase *healthUseCase) Mode() Mode {
	return useCase.mode
}

func (useCase *healthUseCase) CheckHealth() Response {
	switch useCase.mode {
	case ModeUnhealthy:
		payload := model.Error[any]("Service is unhealthy", "FAIL")
		return Response{StatusCode: http.StatusOK, Payload: &payload}
	case ModeBroken:
		return Response{StatusCode: http.StatusOK, Text: "not json"}
	case ModeError:
		payload := model.Error[any]("Internal Server Error", nil)
		return Response{StatusCode: http.StatusInternalServerError, Payload: &payload}
	default:
		payload := model.Success[any]("Service is healthy", model.HealthDataOK)
		return Response{StatusCode: http.StatusOK, Payload: &payload}
	}
}
