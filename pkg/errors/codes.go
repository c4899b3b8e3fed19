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

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_015"
)

// Title search & order error codes
const (
	ErrCodeValidation                ErrorCode = "TTL_001"
	ErrCodeNotFoundResult            ErrorCode = "TTL_002"
	ErrCodeMalformedResponse         ErrorCode = "TTL_003"
	ErrCodeProviderUnavailable       ErrorCode = "TTL_004"
	ErrCodePlacementFailed           ErrorCode = "TTL_005"
	ErrCodeNotificationBlocking      ErrorCode = "TTL_006"
	ErrCodeSuperseded                ErrorCode = "TTL_007"
	ErrCodeRegionChangeNeedsConfirm  ErrorCode = "TTL_008"
	ErrCodeInvalidTransition         ErrorCode = "TTL_009"
	ErrCodeVerificationNotConclusive ErrorCode = "TTL_010"
	ErrCodeUnknownProduct            ErrorCode = "TTL_011"
)

// Short aliases used at call sites.
const (
	CodeInternal                 = ErrCodeInternal
	CodeInvalidParam             = ErrCodeBadRequest
	CodeNotFound                 = ErrCodeNotFound
	CodeConflict                 = ErrCodeConflict
	CodeServiceUnavailable       = ErrCodeServiceUnavailable
	CodeTimeout                  = ErrCodeTimeout
	CodeOK                       = ErrorCode("OK")
	CodeUnknown                  = ErrorCode("UNKNOWN")
	CodeValidation               = ErrCodeValidation
	CodeNotFoundResult           = ErrCodeNotFoundResult
	CodeMalformedResponse        = ErrCodeMalformedResponse
	CodeProviderUnavailable      = ErrCodeProviderUnavailable
	CodePlacementFailed          = ErrCodePlacementFailed
	CodeNotificationBlocking     = ErrCodeNotificationBlocking
	CodeSuperseded               = ErrCodeSuperseded
	CodeRegionChangeNeedsConfirm = ErrCodeRegionChangeNeedsConfirm
	CodeInvalidTransition        = ErrCodeInvalidTransition
	CodeVerificationInconclusive = ErrCodeVerificationNotConclusive
	CodeUnknownProduct           = ErrCodeUnknownProduct
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,

	ErrCodeValidation:                http.StatusUnprocessableEntity,
	ErrCodeNotFoundResult:            http.StatusNotFound,
	ErrCodeMalformedResponse:         http.StatusBadGateway,
	ErrCodeProviderUnavailable:       http.StatusServiceUnavailable,
	ErrCodePlacementFailed:           http.StatusBadGateway,
	ErrCodeNotificationBlocking:      http.StatusConflict,
	ErrCodeSuperseded:                http.StatusConflict,
	ErrCodeRegionChangeNeedsConfirm:  http.StatusConflict,
	ErrCodeInvalidTransition:         http.StatusConflict,
	ErrCodeVerificationNotConclusive: http.StatusUnprocessableEntity,
	ErrCodeUnknownProduct:            http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeStorageError:       "storage error",

	ErrCodeValidation:                "validation failed",
	ErrCodeNotFoundResult:            "No results found for the search criteria",
	ErrCodeMalformedResponse:         "No results found for the search criteria",
	ErrCodeProviderUnavailable:       "The land registry is currently unavailable. Please try again later",
	ErrCodePlacementFailed:           "The order could not be placed",
	ErrCodeNotificationBlocking:      "The land registry returned a notification",
	ErrCodeSuperseded:                "request superseded by a newer request",
	ErrCodeRegionChangeNeedsConfirm:  "an order is in progress for another jurisdiction",
	ErrCodeInvalidTransition:         "operation not allowed in the current session state",
	ErrCodeVerificationNotConclusive: "verification did not resolve to exactly one title",
	ErrCodeUnknownProduct:            "unknown product",
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

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
