package health

import "timebank-smoke/internal/domain/model"

// Response is what the stub answers on /health. Payload is rendered as JSON,
// Text as text/plain when Payload is nil.
type Response struct {
	StatusCode int
	Payload    *model.ApiResponse[any]
	Text       string
}

type UseCase interface {
	CheckHealth() Response
	Mode() Mode
}
