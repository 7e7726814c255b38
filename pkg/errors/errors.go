package errors

import "fmt"

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// ========== 业务错误类型 ==========

// ValidationError 参数校验错误（指明出错的键）
type ValidationError struct {
	Key     string // 出错的键，如 "sales.myCustomers"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Message)
	}
	return e.Message
}

// NewValidationError 创建校验错误
func NewValidationError(key, message string) *ValidationError {
	return &ValidationError{Key: key, Message: message}
}

// IsValidationError 判断是否为校验错误
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
