package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
)

func TestEnvelopeTransformer_AlwaysIncludesVersion(t *testing.T) {
	tests := []struct {
		name   string
		status string
		input  any
	}{
		{name: "success response", status: "200", input: map[string]string{"key": "value"}},
		{name: "created response", status: "201", input: map[string]int{"id": 123}},
		{name: "no content response", status: "204", input: nil},
		{name: "bad request error", status: "400", input: errors.New("invalid input")},
		{name: "domain error", status: "404", input: domainerrors.NotFound("lunch record not found")},
		{
			name:   "conflict error with details",
			status: "409",
			input: &APIError{
				Code:    "CONFLICT",
				Message: "Entity already exists",
				Details: map[string]string{"existing_id": "123"},
			},
		},
		{name: "internal server error", status: "500", input: errors.New("internal error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EnvelopeTransformer(nil, tt.status, tt.input)
			require.NoError(t, err)

			jsonBytes, err := json.Marshal(result)
			require.NoError(t, err)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(jsonBytes, &envelope))

			require.Contains(t, envelope, "v", "Envelope must contain version field 'v'")
			assert.Equal(t, float64(EnvelopeVersion), envelope["v"])
		})
	}
}

func TestEnvelopeTransformer_SuccessResponse(t *testing.T) {
	data := map[string]string{"menuName": "bibimbap"}

	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, data, envelope.Data)
	assert.Empty(t, envelope.Error)
}

func TestEnvelopeTransformer_ErrorResponse(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "400", errors.New("validation failed"))
	require.NoError(t, err)

	envelope, ok := result.(APIEnvelope)
	require.True(t, ok, "Expected APIEnvelope type")

	assert.False(t, envelope.Success)
	assert.Nil(t, envelope.Data)
	assert.Equal(t, "validation failed", envelope.Error)
}

func TestEnvelopeTransformer_DomainError(t *testing.T) {
	derr := domainerrors.InvalidArgumentWithDetails("validation failed", map[string]string{"recorded_at": "is required"})

	result, err := EnvelopeTransformer(nil, "400", derr)
	require.NoError(t, err)

	envelope, ok := result.(APIErrorEnvelope)
	require.True(t, ok, "Expected APIErrorEnvelope type")

	assert.Equal(t, "INVALID_ARGUMENT", envelope.Code)
	assert.Equal(t, "validation failed", envelope.Message)
	assert.Equal(t, "validation failed", envelope.Error)
	assert.Equal(t, map[string]string{"recorded_at": "is required"}, envelope.Details)
}

func TestNewError_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		errs   []error
		status int
		code   string
	}{
		{"domain not found", []error{domainerrors.NotFound("gone")}, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped upstream", []error{domainerrors.Wrap(errors.New("eof"), domainerrors.CodeUpstream, "kakao failed")}, http.StatusBadGateway, "UPSTREAM"},
		{"request validation", nil, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"plain error", []error{errors.New("boom")}, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := http.StatusInternalServerError
			if tt.errs == nil {
				status = http.StatusUnprocessableEntity
			}
			se := newError(status, "msg", tt.errs...)
			assert.Equal(t, tt.status, se.GetStatus())

			apiErr, ok := se.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}
