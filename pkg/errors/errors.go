package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	CredentialsInvalid     = Definition{Code: "CREDENTIALS_INVALID", Message: "Email or password invalid"}
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden              = Definition{Code: "FORBIDDEN", Message: "Forbidden"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	UserNotFound           = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	TooManyRequests        = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// 考勤模块错误。
var (
	ValidationFailed   = Definition{Code: "VALIDATION_FAILED", Message: "Validation failed"}
	SessionConflict    = Definition{Code: "SESSION_CONFLICT", Message: "An open attendance session already exists"}
	SessionNotFound    = Definition{Code: "SESSION_NOT_FOUND", Message: "No open attendance session"}
	RecordNotFound     = Definition{Code: "RECORD_NOT_FOUND", Message: "Attendance record not found"}
	InvariantViolation = Definition{Code: "INVARIANT_VIOLATION", Message: "Check-out must not precede check-in"}
)

// 照片留证错误。
var (
	PhotoTooLarge    = Definition{Code: "PHOTO_TOO_LARGE", Message: "Photo exceeds size limit"}
	PhotoTypeInvalid = Definition{Code: "PHOTO_TYPE_INVALID", Message: "Photo must be a JPEG or PNG image"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	EmailAlreadyRegistered.Code: EmailAlreadyRegistered,
	CredentialsInvalid.Code:     CredentialsInvalid,
	Unauthorized.Code:           Unauthorized,
	Forbidden.Code:              Forbidden,
	InvalidUserID.Code:          InvalidUserID,
	UserNotFound.Code:           UserNotFound,
	TooManyRequests.Code:        TooManyRequests,
	ValidationFailed.Code:       ValidationFailed,
	SessionConflict.Code:        SessionConflict,
	SessionNotFound.Code:        SessionNotFound,
	RecordNotFound.Code:         RecordNotFound,
	InvariantViolation.Code:     InvariantViolation,
	PhotoTooLarge.Code:          PhotoTooLarge,
	PhotoTypeInvalid.Code:       PhotoTypeInvalid,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
