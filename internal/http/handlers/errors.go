// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are stable, lowercase snake_case strings sent in the `code` field of
// every error envelope (see fail()). Clients branch on them; messages are for
// people.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "duplicate_client",
//	  "message": "an assessment with this email already exists"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "service_unavailable"

	// Domain-specific:
	ErrCodeDuplicateClient      = "duplicate_client"
	ErrCodeQuotaExhausted       = "quota_exhausted"
	ErrCodeRecommendationFailed = "recommendation_failed"
	ErrCodeGateway              = "gateway_error"
	ErrCodeMalformedCompletion  = "malformed_completion"
	ErrCodeInvalidPlan          = "invalid_plan"
	ErrCodeInvalidSignature     = "invalid_signature"
	ErrCodeAccountExists        = "account_exists"
	ErrCodeInvalidCredentials   = "invalid_credentials"
	ErrCodeListFailed           = "list_failed"
	ErrCodeExportFailed         = "export_failed"
)
