package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/http/response"
)

// EnvelopeVersion is bumped when the envelope shape changes.
const EnvelopeVersion = response.Version

// APIEnvelope wraps every successful response and plain error responses.
type APIEnvelope = response.Envelope //nolint:revive // API prefix is intentional for clarity

// APIErrorEnvelope is the envelope for coded errors.
type APIErrorEnvelope = response.ErrorEnvelope //nolint:revive // API prefix is intentional for clarity

// EnvelopeTransformer wraps huma response bodies in the API envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if strings.HasPrefix(status, "2") || strings.HasPrefix(status, "3") {
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}

	switch e := v.(type) {
	case *APIError:
		return errorEnvelope(e.Code, e.Message, e.Details), nil
	case *domainerrors.Error:
		return errorEnvelope(string(e.Code), e.Message, e.Details), nil
	case error:
		return APIEnvelope{Version: EnvelopeVersion, Success: false, Error: e.Error()}, nil
	default:
		return APIEnvelope{Version: EnvelopeVersion, Success: false, Data: v}, nil
	}
}

func errorEnvelope(code, message string, details any) APIErrorEnvelope {
	return response.NewErrorEnvelope(code, message, details)
}
