package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/reallifegames/localauth/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error", err: fmt.Errorf("create: %w", apperrors.Conflict("exists")), want: "conflict"},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "pg error", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: "pgconn_pgerror"},
		{name: "plain", err: fmt.Errorf("outer: %w", fmt.Errorf("inner")), want: "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
