package domain

import (
	"errors"
	"fmt"
)

// Kind 에러 분류. transport 계층이 응답 코드로 매핑한다
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindStore        Kind = "STORE"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // 필드별 검증 메시지, 없을 수 있음
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is 같은 Kind 면 일치. errors.Is(err, domain.ErrValidation) 로 바로 쓴다
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrValidation   = &Error{Kind: KindValidation, Message: "validation error"}
	ErrNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden    = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrStore        = &Error{Kind: KindStore, Message: "store error"}
)

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ValidationFields(msg string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }

// Store 저장소 에러를 감싼다. 이미 *Error 면 그대로 반환
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStore, Message: op, cause: err}
}

// KindOf *Error 가 아니면 모두 Store
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStore
}
