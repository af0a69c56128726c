package services

import (
	"errors"
	"fmt"
	"strings"

	"todolist/internal/models"
)

// Kind classifies business-rule failures so adapters can map them to
// transport codes without parsing messages.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindCapacity
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCapacity:
		return "capacity_exceeded"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is an expected business-rule violation. Its message is shown to
// users as is by every adapter.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind Kind) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrProjectNotFound = &Error{Kind: KindNotFound, Message: "project not found"}
	ErrTaskNotFound    = &Error{Kind: KindNotFound, Message: "task not found"}
	ErrDuplicateName   = &Error{Kind: KindConflict, Message: "a project with this name already exists"}
)

func errInvalidStatus(status string) *Error {
	return newError(KindValidation, "status %q is invalid, valid statuses: %s",
		status, strings.Join(models.TaskStatuses, ", "))
}
