package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Error kinds reported by relationship and rating operations. Callers match
// them with errors.Is; the request layer owns the user-facing wording.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyExists    = errors.New("already exists")
	ErrBlocked          = errors.New("blocked")
	ErrSelfRating       = errors.New("self rating")
	ErrAlreadySubmitted = errors.New("already submitted")
	ErrInvalidGrade     = errors.New("invalid grade")
)

// RelationError carries an error kind together with the ids involved.
type RelationError struct {
	Op        string
	Kind      error
	ActorID   uuid.UUID
	TargetID  uuid.UUID
	RequestID uuid.UUID
	MatchID   uuid.UUID
}

func (e *RelationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())

	var ids []string
	for _, id := range []struct {
		name  string
		value uuid.UUID
	}{
		{"actor", e.ActorID},
		{"target", e.TargetID},
		{"request", e.RequestID},
		{"match", e.MatchID},
	} {
		if id.value != uuid.Nil {
			ids = append(ids, id.name+"="+id.value.String())
		}
	}
	if len(ids) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(ids, " "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *RelationError) Unwrap() error {
	return e.Kind
}

// ErrorKind returns the sentinel kind of err, or nil for infrastructure errors.
func ErrorKind(err error) error {
	for _, kind := range []error{
		ErrUnauthenticated,
		ErrInvalidTarget,
		ErrNotFound,
		ErrForbidden,
		ErrAlreadyExists,
		ErrBlocked,
		ErrSelfRating,
		ErrAlreadySubmitted,
		ErrInvalidGrade,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// classify attaches structured context to a bare error kind. Infrastructure
// errors and errors that already carry context pass through unchanged.
func classify(err error, info RelationError) error {
	if err == nil {
		return nil
	}
	kind := ErrorKind(err)
	if kind == nil {
		return err
	}
	var existing *RelationError
	if errors.As(err, &existing) {
		return err
	}
	info.Kind = kind
	return &info
}
