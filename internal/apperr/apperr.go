package apperr

import (
	"errors"
	"net/http"
)

// Kind 业务错误类别（闭集）
type Kind int

const (
	KindValidation Kind = iota + 1
	KindDuplicate
	KindInvalidCredentials
	KindNoToken
	KindInvalidToken
	KindIdentityNotFound
	KindNotFound
	KindForbidden
	KindStore
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error // 底层原因，仅日志可见，不下发
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "application error"
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string) error { return &Error{Kind: k, Msg: msg} }

func Validation(msg string) error { return newErr(KindValidation, msg) }
func Duplicate(msg string) error  { return newErr(KindDuplicate, msg) }
func NotFound(msg string) error   { return newErr(KindNotFound, msg) }
func Forbidden(msg string) error  { return newErr(KindForbidden, msg) }
func InvalidCredentials() error   { return newErr(KindInvalidCredentials, "invalid credentials") }
func NoToken() error              { return newErr(KindNoToken, "no token provided") }
func InvalidToken() error         { return newErr(KindInvalidToken, "invalid token") }
func IdentityNotFound() error     { return newErr(KindIdentityNotFound, "user not found") }
func Store(msg string, err error) error {
	return &Error{Kind: KindStore, Msg: msg, Err: err}
}

// IsKind 判断 err 是否属于某个类别
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// HTTPStatus 类别到 HTTP 状态码的映射；未知错误一律 500
func HTTPStatus(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindInvalidCredentials, KindNoToken, KindInvalidToken, KindIdentityNotFound:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
