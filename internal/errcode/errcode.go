package errcode

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// 错误码约定：
// - 0：无错误
// - 4xxx：业务可恢复/告警类错误（例如资源缺失但流程可继续）
// - 5xxx：系统错误（需要中断流程）
const (
	OK                      = 0
	InvalidInput            = 4000
	ResourceMissing         = 4004
	MissingCandidateContext = 4040
	UnsupportedFile         = 4150
	MaliciousFile           = 4220
	TranslationRejected     = 4300
	SystemError             = 5000
	PersistenceFailure      = 5001
	ExtractionFailure       = 5020
)

// Kind 对错误进行分类，决定调用方的降级策略与 HTTP 状态码。
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindMissingCandidateContext
	KindInvalidInput
	KindUnsupportedFile
	KindMaliciousFile
	KindTranslationRejected
	KindExtraction
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMissingCandidateContext:
		return "missing_candidate_context"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnsupportedFile:
		return "unsupported_file"
	case KindMaliciousFile:
		return "malicious_file"
	case KindTranslationRejected:
		return "translation_rejected"
	case KindExtraction:
		return "extraction_failure"
	case KindPersistence:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Code 返回 Kind 对应的数字错误码。
func (k Kind) Code() int {
	switch k {
	case KindNotFound:
		return ResourceMissing
	case KindMissingCandidateContext:
		return MissingCandidateContext
	case KindInvalidInput:
		return InvalidInput
	case KindUnsupportedFile:
		return UnsupportedFile
	case KindMaliciousFile:
		return MaliciousFile
	case KindTranslationRejected:
		return TranslationRejected
	case KindExtraction:
		return ExtractionFailure
	case KindPersistence:
		return PersistenceFailure
	default:
		return SystemError
	}
}

// HTTPStatus maps the kind to the status code the API responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound, KindMissingCandidateContext:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnsupportedFile:
		return http.StatusUnsupportedMediaType
	case KindMaliciousFile, KindTranslationRejected:
		return http.StatusUnprocessableEntity
	case KindExtraction:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error 是携带分类信息的业务错误。
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Code 返回数字错误码。
func (e *Error) Code() int {
	if e == nil {
		return OK
	}
	return e.Kind.Code()
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func MissingContext(msg string) *Error { return New(KindMissingCandidateContext, msg) }

func Invalid(msg string) *Error { return New(KindInvalidInput, msg) }

func Rejected(msg string, err error) *Error { return Wrap(KindTranslationRejected, msg, err) }

func Extraction(msg string, err error) *Error { return Wrap(KindExtraction, msg, err) }

func Persistence(msg string, err error) *Error { return Wrap(KindPersistence, msg, err) }

// KindOf 返回错误链中第一个 *Error 的分类；非业务错误返回 KindUnknown。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message 返回适合直接返回给调用方的错误描述。
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e != nil && e.Msg != "" {
		return e.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// PostgreSQL SQLSTATE codes used when classifying persistence failures.
const (
	pgUniqueViolation          = "23505"
	pgNotNullViolation         = "23502"
	pgCharacterNotInRepertoire = "22021"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

func IsNotNullViolation(err error) bool { return pgCode(err) == pgNotNullViolation }

// IsInvalidByteSequence 命中 NUL 等非法字符写入 text/jsonb 的情况。
func IsInvalidByteSequence(err error) bool { return pgCode(err) == pgCharacterNotInRepertoire }
