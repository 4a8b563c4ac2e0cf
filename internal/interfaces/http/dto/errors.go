package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeInvalidCredentials is used when login credentials don't match
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountDeactivated is used when the account has been disabled
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
	// ErrCodeRefreshExhausted is used when the refresh chain hit its limit
	ErrCodeRefreshExhausted = "ERR_REFRESH_EXHAUSTED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeEmailTaken is used when registering with an email already in use
	ErrCodeEmailTaken = "ERR_EMAIL_TAKEN"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeInsufficientBalance is used when wallet balance is insufficient
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	// ErrCodeEmptyCart is used when checkout is attempted with no items
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeProductUnavailable is used when a cart item is no longer purchasable
	ErrCodeProductUnavailable = "ERR_PRODUCT_UNAVAILABLE"
	// ErrCodeCouponRejected is used when a coupon cannot be applied
	ErrCodeCouponRejected = "ERR_COUPON_REJECTED"
	// ErrCodeAlreadyReviewed is used when a user reviews a product twice
	ErrCodeAlreadyReviewed = "ERR_ALREADY_REVIEWED"
	// ErrCodeProofRequired is used when payment proof is missing for the operation
	ErrCodeProofRequired = "ERR_PROOF_REQUIRED"
	// ErrCodeUnsupportedMediaType is used when an upload content type is rejected
	ErrCodeUnsupportedMediaType = "ERR_UNSUPPORTED_MEDIA_TYPE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeRefreshExhausted:   http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountDeactivated: http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeEmailTaken:    http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:           http.StatusUnprocessableEntity,
	ErrCodeProductUnavailable:  http.StatusUnprocessableEntity,
	ErrCodeCouponRejected:      http.StatusUnprocessableEntity,
	ErrCodeAlreadyReviewed:     http.StatusUnprocessableEntity,
	ErrCodeProofRequired:       http.StatusUnprocessableEntity,

	// Uploads -> 415 Unsupported Media Type
	ErrCodeUnsupportedMediaType: http.StatusUnsupportedMediaType,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps raw domain error codes to the standardized
// ERR_* codes exposed over the API
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INTERNAL_ERROR":       ErrCodeInternal,
	"INSUFFICIENT_STOCK":   ErrCodeInsufficientStock,
	"INSUFFICIENT_BALANCE": ErrCodeInsufficientBalance,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,

	// Identity
	"EMAIL_TAKEN":         ErrCodeEmailTaken,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_DEACTIVATED": ErrCodeAccountDeactivated,
	"REFRESH_EXHAUSTED":   ErrCodeRefreshExhausted,
	"INVALID_TOKEN":       ErrCodeTokenInvalid,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,
	"INVALID_PASSWORD":    ErrCodeValidation,
	"INVALID_EMAIL":       ErrCodeValidation,
	"INVALID_NAME":        ErrCodeValidation,
	"INVALID_PHONE":       ErrCodeValidation,
	"INVALID_USER":        ErrCodeValidation,

	// Cart and checkout
	"EMPTY_CART":          ErrCodeEmptyCart,
	"EMPTY_ORDER":         ErrCodeEmptyCart,
	"PRODUCT_UNAVAILABLE": ErrCodeProductUnavailable,
	"INVALID_QUANTITY":    ErrCodeValidation,
	"INVALID_AMOUNT":      ErrCodeValidation,

	// Coupons
	"COUPON_NOT_FOUND":     ErrCodeNotFound,
	"COUPON_EXPIRED":       ErrCodeCouponRejected,
	"COUPON_NOT_STARTED":   ErrCodeCouponRejected,
	"COUPON_INACTIVE":      ErrCodeCouponRejected,
	"COUPON_MIN_PURCHASE":  ErrCodeCouponRejected,
	"COUPON_LIMIT_REACHED": ErrCodeCouponRejected,
	"COUPON_USER_LIMIT":    ErrCodeCouponRejected,

	// Payment proofs
	"NO_PROOF":               ErrCodeProofRequired,
	"PROOF_NOT_UPLOADED":     ErrCodeProofRequired,
	"UNSUPPORTED_MEDIA_TYPE": ErrCodeUnsupportedMediaType,

	// Reviews
	"ALREADY_REVIEWED": ErrCodeAlreadyReviewed,
	"INVALID_RATING":   ErrCodeValidation,
}

// NormalizeErrorCode converts a raw domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
