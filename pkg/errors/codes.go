package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
)

// Short aliases used throughout the call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeForbidden    = ErrCodeForbidden
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeOK           = ErrorCode("OK")
)

// Policy module error codes.
const (
	ErrCodePolicyNotFound      ErrorCode = "POL_001"
	ErrCodePolicyAlreadyExists ErrorCode = "POL_002"
	ErrCodePolicyInvalid       ErrorCode = "POL_003"
	ErrCodePolicyImportFailed  ErrorCode = "POL_004"
)

// Extraction pipeline error codes.
const (
	ErrCodeExtractionEmptyText ErrorCode = "EXT_001"
	ErrCodeExtractionFailed    ErrorCode = "EXT_002"
	ErrCodeAdapterUnavailable  ErrorCode = "EXT_003"
	ErrCodeAdapterBadResponse  ErrorCode = "EXT_004"
)

// Comparison engine error codes.
const (
	ErrCodeInsufficientData ErrorCode = "CMP_001"
	ErrCodeComparisonFailed ErrorCode = "CMP_002"
)

// Advisor / scoring error codes.
const (
	ErrCodeScoringFailed ErrorCode = "ADV_001"
)

// External data source error codes.
const (
	ErrCodeQuoteSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeQuoteSourceParseError  ErrorCode = "SRC_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,

	ErrCodePolicyNotFound:      http.StatusNotFound,
	ErrCodePolicyAlreadyExists: http.StatusConflict,
	ErrCodePolicyInvalid:       http.StatusBadRequest,
	ErrCodePolicyImportFailed:  http.StatusUnprocessableEntity,

	ErrCodeExtractionEmptyText: http.StatusBadRequest,
	ErrCodeExtractionFailed:    http.StatusInternalServerError,
	ErrCodeAdapterUnavailable:  http.StatusServiceUnavailable,
	ErrCodeAdapterBadResponse:  http.StatusBadGateway,

	ErrCodeInsufficientData: http.StatusBadRequest,
	ErrCodeComparisonFailed: http.StatusInternalServerError,

	ErrCodeScoringFailed: http.StatusInternalServerError,

	ErrCodeQuoteSourceUnavailable: http.StatusServiceUnavailable,
	ErrCodeQuoteSourceParseError:  http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodePolicyNotFound:      "policy not found",
	ErrCodePolicyAlreadyExists: "policy already exists",
	ErrCodePolicyInvalid:       "invalid policy data",
	ErrCodePolicyImportFailed:  "policy import failed",

	ErrCodeExtractionEmptyText: "document text is empty",
	ErrCodeExtractionFailed:    "document extraction failed",
	ErrCodeAdapterUnavailable:  "extraction adapter unavailable",
	ErrCodeAdapterBadResponse:  "extraction adapter returned a malformed response",

	ErrCodeInsufficientData: "at least 2 policies are required for comparison",
	ErrCodeComparisonFailed: "policy comparison failed",

	ErrCodeScoringFailed: "value scoring failed",

	ErrCodeQuoteSourceUnavailable: "quote source unavailable",
	ErrCodeQuoteSourceParseError:  "failed to parse quote source response",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
