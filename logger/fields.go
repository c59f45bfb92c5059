package logger

// Standard field names for consistent structured logging across nakamura.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldTargetID  = "target_id"
	FieldGroupID   = "group_id"

	// Components
	FieldComponent = "component"
	FieldService   = "service"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"

	// Counts and sizes
	FieldCount      = "count"
	FieldQuota      = "quota"
	FieldTotalCount = "total_count"

	// Timing
	FieldDurationMS = "duration_ms"
)
