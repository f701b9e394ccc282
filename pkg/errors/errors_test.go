package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SetsCodeMessageAndStack(t *testing.T) {
	err := New(ErrCodePolicyNotFound, "policy 42 not found")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodePolicyNotFound, err.Code)
	assert.Equal(t, "policy 42 not found", err.Message)
	assert.NotEmpty(t, err.Stack)
}

func TestError_FormatWithAndWithoutDetail(t *testing.T) {
	err := New(ErrCodeInsufficientData, "need more policies")
	assert.Equal(t, "[CMP_001] need more policies", err.Error())

	withDetail := err.WithDetail("resolved=1")
	assert.Equal(t, "[CMP_001] need more policies: resolved=1", withDetail.Error())
	// Original is untouched.
	assert.Empty(t, err.Detail)
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "query failed"))
}

func TestWrap_PreservesOriginalCodeOnInternal(t *testing.T) {
	inner := New(ErrCodePolicyNotFound, "gone")
	wrapped := Wrap(inner, CodeInternal, "adding context")
	assert.Equal(t, ErrCodePolicyNotFound, wrapped.Code)
	assert.True(t, stderrors.Is(wrapped, wrapped))
	assert.Equal(t, inner, stderrors.Unwrap(wrapped))
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := New(ErrCodeInsufficientData, "only one policy")
	wrapped := Wrap(inner, ErrCodeComparisonFailed, "comparison aborted")
	outer := fmt.Errorf("handler: %w", wrapped)

	assert.True(t, IsCode(outer, ErrCodeInsufficientData))
	assert.True(t, IsInsufficientData(outer))
	assert.False(t, IsCode(outer, ErrCodePolicyNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("missing")))
	assert.True(t, IsNotFound(New(ErrCodePolicyNotFound, "missing")))
	assert.False(t, IsNotFound(InvalidParam("bad")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, ErrCodeCacheError, GetCode(New(ErrCodeCacheError, "boom")))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInsufficientData, http.StatusBadRequest},
		{ErrCodePolicyNotFound, http.StatusNotFound},
		{ErrCodePolicyAlreadyExists, http.StatusConflict},
		{ErrCodeAdapterUnavailable, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("NOPE_999"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatusForCode(tt.code), "code: %s", tt.code)
	}
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CMP", ModuleForCode(ErrCodeInsufficientData))
	assert.Equal(t, "POL", ModuleForCode(ErrCodePolicyNotFound))
	assert.Equal(t, "EXT", ModuleForCode(ErrCodeAdapterBadResponse))
}

func TestIsClientServerError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeInsufficientData))
	assert.False(t, IsServerError(ErrCodeInsufficientData))
	assert.True(t, IsServerError(ErrCodeExtractionFailed))
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("socket closed")
	err := New(ErrCodeExternalService, "quote fetch failed").WithCause(cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}
