package resp

const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeConflict      = "CONFLICT"
	CodeLocked        = "ACCOUNT_LOCKED"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
	CodeQueued        = "QUEUED"
	CodeOK            = "OK"
)
