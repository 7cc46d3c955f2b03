package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"timebank-smoke/internal/domain/model"
	"timebank-smoke/pkg/http"
	"timebank-smoke/pkg/msg"
)

// RequestIDHeader carries the request id so server logs can be matched with ours.
const RequestIDHeader = "X-Request-Id"

// InvalidPayloadError is returned when a 2xx body is not valid JSON or not a JSON object.
type InvalidPayloadError struct {
	URL       string
	Body      []byte
	NotObject bool
	Err       error
}

func (e *InvalidPayloadError) Error() string {
	if e.NotObject {
		return msg.GetMessage("api-test.not-object", e.URL, string(e.Body))
	}
	return msg.GetMessage("api-test.invalid-json", e.URL, string(e.Body))
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}

// healthGatewayImpl implements the HealthGateway interface
type healthGatewayImpl struct {
	httpClient *http.Client
	method     http.RequestMethod
	path       string
}

// NewHealthGateway creates a new instance of HealthGateway with HTTP client
func NewHealthGateway(baseUrl string, path string, method http.RequestMethod, clientOptions http.ClientOptions) HealthGateway {
	return &healthGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		method:     method,
		path:       path,
	}
}

// Check calls the health endpoint and decodes its body
func (h *healthGatewayImpl) Check(ctx context.Context) (*model.HealthPayload, error) {
	var raw json.RawMessage

	_, _, _, err := h.httpClient.Request().
		WithContext(ctx).
		WithMethod(h.method).
		WithPath(h.path).
		WithHeaders(map[string]string{
			"Accept":        "application/json",
			RequestIDHeader: uuid.NewString(),
		}).
		WithSuccessResp(&raw).
		Execute()

	if err != nil {
		var decodeErr *http.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, &InvalidPayloadError{URL: decodeErr.URL, Body: decodeErr.Body, Err: decodeErr.Err}
		}
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &InvalidPayloadError{URL: h.httpClient.URL(h.path), Body: raw, NotObject: true, Err: err}
	}

	return &model.HealthPayload{
		Status:  fields["status"],
		Message: fields["message"],
		Data:    fields["data"],
		Raw:     raw,
	}, nil
}
