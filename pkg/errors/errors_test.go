package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeUnknownEvent, "event not defined")
	assert.Equal(t, "[CALC_002] event not defined", err.Error())

	withDetail := err.WithDetail("jurisdiction=TX event=nope")
	assert.Equal(t, "[CALC_002] event not defined: jurisdiction=TX event=nope", withDetail.Error())

	// WithDetail clones; the original is untouched.
	assert.Empty(t, err.Detail)
}

func TestWrapPreservesChain(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, ErrCodePackMalformed, "failed to read pack")

	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, cause))

	var ae *AppError
	require.True(t, stderrors.As(err, &ae))
	assert.Equal(t, ErrCodePackMalformed, ae.Code)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestIsCodeWalksChain(t *testing.T) {
	inner := New(ErrCodeUnsupportedJurisdiction, "no pack for NV")
	outer := fmt.Errorf("calculation failed: %w", inner)

	assert.True(t, IsCode(outer, ErrCodeUnsupportedJurisdiction))
	assert.False(t, IsCode(outer, ErrCodeUnknownEvent))
	assert.False(t, IsCode(nil, ErrCodeUnknownEvent))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeCacheError, GetCode(New(ErrCodeCacheError, "miss")))
	assert.Equal(t, ErrCodeCacheError,
		GetCode(fmt.Errorf("wrapped: %w", New(ErrCodeCacheError, "miss"))))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeNotFound, "gone")))
	assert.True(t, IsNotFound(New(ErrCodePackNotFound, "no file")))
	assert.True(t, IsNotFound(New(ErrCodeUnsupportedJurisdiction, "no pack")))
	assert.True(t, IsNotFound(New(ErrCodeUnknownEvent, "no event")))
	assert.False(t, IsNotFound(New(ErrCodeValidation, "bad input")))
	assert.False(t, IsNotFound(nil))
}

func TestHTTPStatusForCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeBadRequest:               http.StatusBadRequest,
		ErrCodeValidation:               http.StatusUnprocessableEntity,
		ErrCodeUnsupportedServiceMethod: http.StatusBadRequest,
		ErrCodeInvalidTimeFormat:        http.StatusUnprocessableEntity,
		ErrCodeNotFound:                 http.StatusNotFound,
		ErrCodeUnsupportedJurisdiction:  http.StatusNotFound,
		ErrCodeUnknownEvent:             http.StatusNotFound,
		ErrCodeConflict:                 http.StatusConflict,
		ErrCodeServiceUnavailable:       http.StatusServiceUnavailable,
		ErrCodeInternal:                 http.StatusInternalServerError,
		CodeUnknown:                     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatusForCode(code), string(code))
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeUnknownEvent))
	assert.False(t, IsClientError(ErrCodeInternal))
	assert.False(t, IsClientError(ErrCodeDatabaseError))
}
