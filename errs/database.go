package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		Kind:       KindService,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError classifies a persistence failure. The database's own
// message is kept as the error text so it can be shown verbatim.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return &ApiErr{
			StatusCode: http.StatusInternalServerError,
			Kind:       KindUnexpected,
			err:        ErrDatabaseQuery,
			Details:    fmt.Sprintf("Failed to %s %s", operation, entity),
		}
	}

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return &ApiErr{
			StatusCode: http.StatusGatewayTimeout,
			Kind:       KindUnexpected,
			err:        cause,
			Cause:      cause,
		}
	}

	if isConnectionFailure(cause) {
		return newConnectionError(cause)
	}

	errStr := cause.Error()
	switch {
	case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "UNIQUE constraint"):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			Kind:       KindService,
			err:        errors.New(errStr),
			Cause:      ErrConflict,
		}
	case strings.Contains(errStr, "failed to connect"),
		strings.Contains(errStr, "connection"),
		strings.Contains(errStr, "dial "):
		return newConnectionError(cause)
	}

	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		Kind:       KindService,
		err:        errors.New(errStr),
		Cause:      cause,
	}
}

// isConnectionFailure matches the typed errors pgx and the net package return
// when the server could not be reached at all.
func isConnectionFailure(cause error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(cause, &connectErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(cause, &opErr)
}

func newConnectionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		Kind:       KindUnexpected,
		err:        ErrDatabaseConnection,
		Details:    cause.Error(),
		Cause:      cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
