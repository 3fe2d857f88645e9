// Package apperr 定义对外可见的业务错误分类
//
// 每个错误都带有稳定的 Kind（供客户端判断）和可读的 Message（供展示）。
// 存储层、服务层统一返回 *Error，接口层只负责把 Kind 映射为 HTTP 状态码。
package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误类别
type Kind string

const (
	KindValidation      Kind = "validation_error" // 缺少或格式错误的必填字段
	KindDuplicateName   Kind = "duplicate_name"   // 同一用户下类别名称冲突
	KindInvalidCategory Kind = "invalid_category" // 引用的类别不存在或不属于当前用户
	KindNotFound        Kind = "not_found"        // 目标记录不存在或属于其他用户
	KindUnauthorized    Kind = "unauthorized"     // 凭证缺失或无效
	KindTransient       Kind = "transient"        // 连接池耗尽、连接中断等，可重试
	KindRateLimited     Kind = "rate_limited"
	KindInternal        Kind = "internal"
)

// Error 业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func DuplicateName(message string) *Error {
	return New(KindDuplicateName, message)
}

func InvalidCategory(message string) *Error {
	return New(KindInvalidCategory, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// KindOf 返回错误类别，非 *Error 一律视为 internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf 返回可展示给客户端的信息
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// HTTPStatus Kind 对应的 HTTP 状态码
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindDuplicateName, KindInvalidCategory:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTransient:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Response 错误响应体
type Response struct {
	Error string `json:"error" example:"类别名称已存在"`
	Kind  Kind   `json:"kind" example:"duplicate_name"`
}

// ResponseOf 由错误生成响应体，只暴露 Message，不包含底层错误
func ResponseOf(err error, fallback string) Response {
	return Response{Error: MessageOf(err, fallback), Kind: KindOf(err)}
}
