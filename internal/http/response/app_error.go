package response

import "errors"

// AppError 统一错误包装
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorRule 业务错误到响应码与提示的映射
type ErrorRule struct {
	Target  error
	Code    int
	Message string
}

// MatchError 按顺序匹配映射规则；命中时 Err 为空（预期内的业务错误不记日志）
func MatchError(err error, rules []ErrorRule, fallbackCode int, fallbackMessage string) *AppError {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			return WrapError(rule.Code, rule.Message, nil)
		}
	}
	return WrapError(fallbackCode, fallbackMessage, err)
}
