package errors

import "fmt"

// NonRetryableError 重试也无法成功的错误（配置、模板、参数问题），消费端不回队
type NonRetryableError struct {
	Code    string
	Message string
	Hint    string
}

func NewNonRetryableError(code, message, hint string) *NonRetryableError {
	return &NonRetryableError{Code: code, Message: message, Hint: hint}
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %s - %s (%s)", e.Code, e.Message, e.Hint)
}
