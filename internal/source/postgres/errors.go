package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ErrMissingSetting is matched by PolicyError via errors.Is.
var ErrMissingSetting = errors.New("expected setting missing")

// ConnectError is returned when no connection to the server could be
// established. No Inspector is returned alongside it.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %s", describe(e.Err))
}

func (e *ConnectError) Unwrap() error { return e.Err }

// QueryError wraps any failure while running a single statement.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %s", e.Query, describe(e.Err))
}

func (e *QueryError) Unwrap() error { return e.Err }

// PolicyError reports settings the logging policy needs but the server did
// not return. It is distinct from a QueryError: the query itself succeeded.
type PolicyError struct {
	Missing []string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSetting, strings.Join(e.Missing, ", "))
}

func (e *PolicyError) Is(target error) bool {
	return target == ErrMissingSetting
}

// describe adds the SQLSTATE code when the driver reported one.
func describe(err error) string {
	if err == nil {
		return "<nil>"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("%s (SQLSTATE %s)", pqErr.Message, pqErr.Code)
	}
	return err.Error()
}
