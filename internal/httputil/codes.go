package httputil

// Machine-readable error codes returned alongside error messages
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationError    = "validation_error"

	CodeMissingAuth        = "missing_auth"
	CodeInvalidAuthHeader  = "invalid_auth_header"
	CodeInvalidToken       = "invalid_token"
	CodeTokenExpired       = "token_expired"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInactiveAccount    = "inactive_account"
	CodeEmailAlreadyExists = "email_already_exists"

	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
)
