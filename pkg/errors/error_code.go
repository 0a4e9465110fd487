package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidTimespan      ErrorCode = 110
	ErrCodeInvalidProvider      ErrorCode = 111
	ErrCodeInvalidWriter        ErrorCode = 112
	ErrCodeInvalidDatasetID     ErrorCode = 113

	// Dataset errors (200-299)
	ErrCodeDatasetNotFound    ErrorCode = 200
	ErrCodeDatasetReadFailed  ErrorCode = 201
	ErrCodeDatasetParseFailed ErrorCode = 202
	ErrCodeSchemaMismatch     ErrorCode = 203
	ErrCodeDatasetWriteFailed ErrorCode = 204
	ErrCodeDatasetLockFailed  ErrorCode = 205
	ErrCodeDatasetQueryFailed ErrorCode = 206

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702

	// Dataset host errors (800-899)
	ErrCodeHostRequestFailed ErrorCode = 800
	ErrCodeHostAuthMissing   ErrorCode = 801
	ErrCodeHostArchiveFailed ErrorCode = 802
	ErrCodeHostUploadFailed  ErrorCode = 803
)
