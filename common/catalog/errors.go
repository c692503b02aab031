package catalog

import (
	"errors"
	"net/http"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/ingest"
)

// Kind classifies catalog errors.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindDelete
	KindRefreshInProgress
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindDelete:
		return "delete"
	case KindRefreshInProgress:
		return "refresh_in_progress"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

var (
	// ErrRefreshInProgress is wrapped by the error returned when another
	// refresh of the same source holds the lease.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrArchiveDisabled is wrapped when no object store is configured.
	ErrArchiveDisabled = errors.New("export archive is not configured")
)

// Error is a classified catalog failure. Message is safe to show to API
// clients; Err carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindInternal {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func ConflictError(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func NotFoundError(msg string, err error) error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func DeleteError(msg string, err error) error {
	return &Error{Kind: KindDelete, Message: msg, Err: err}
}

func internalError(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the classification of err. Fetch failures count as
// validation of the submitted URL.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var fe *ingest.FetchError
	if errors.As(err, &fe) {
		return KindValidation
	}
	return KindInternal
}

// HTTPStatus maps err to the status code returned by the API.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindRefreshInProgress:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text shown to API clients for err.
func PublicMessage(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	var fe *ingest.FetchError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return "Internal server error"
}
