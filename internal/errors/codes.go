package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront and admin UI map these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Option sets (SET_) ====================
	SetNotFound        = "SET_NOT_FOUND"
	SetAlreadyAssigned = "SET_ALREADY_ASSIGNED"
	SetInactive        = "SET_INACTIVE"

	// ==================== Options (OPTION_) ====================
	OptionNotFound       = "OPTION_NOT_FOUND"
	OptionValueNotFound  = "OPTION_VALUE_NOT_FOUND"
	OptionTokenExists    = "OPTION_TOKEN_EXISTS"
	OptionInvalidType    = "OPTION_INVALID_TYPE"
	OptionSelectionCount = "OPTION_SELECTION_COUNT"

	OptionValuesNotSupported = "OPTION_VALUES_NOT_SUPPORTED"

	// ==================== Rules (RULE_) ====================
	RuleNotFound         = "RULE_NOT_FOUND"
	RuleInvalidCondition = "RULE_INVALID_CONDITION"
	RuleInvalidAction    = "RULE_INVALID_ACTION"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
