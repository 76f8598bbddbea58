package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind splits backend failures into the two classes the terminal treats
// differently: transient ones are retried and then demoted to the offline
// queue, rejections are surfaced immediately and never retried.
type Kind int

const (
	KindTransient Kind = iota
	KindRejected
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindRejected {
		return fmt.Sprintf("backend rejected: %v", e.Err)
	}
	return fmt.Sprintf("transient backend error: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransient, Err: err}
}

func Reject(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindRejected, Err: err}
}

// IsTransient reports whether err should be retried. Unknown errors count as
// transient: misclassifying a rejection costs a few wasted retries,
// misclassifying a timeout loses the retry that would have saved the order.
func IsTransient(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == KindTransient
	}
	return true
}

// classify maps driver errors onto the taxonomy. Postgres class 22/23 errors
// (data and integrity violations) are rejections; everything else, including
// timeouts and dropped connections, is transient.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		class := ""
		if len(pgErr.Code) >= 2 {
			class = pgErr.Code[:2]
		}
		if class == "22" || class == "23" {
			return Reject(err)
		}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return Transient(err)
}
