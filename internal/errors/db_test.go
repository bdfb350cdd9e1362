package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{name: "wrapped deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantCode: ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if !IsAppError(err, tt.wantCode) {
				t.Errorf("MapDBError() code = %v, want %v", GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	if !IsNotFound(err) {
		t.Errorf("MapDBError(pgx.ErrNoRows) should be NotFound, got %v", GetCode(err))
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Error("mapped error should unwrap to pgx.ErrNoRows")
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
		wantMsg   string
	}{
		{
			name: "duplicate username with column name",
			pgErr: &pgconn.PgError{
				Code:       pgerrcode.UniqueViolation,
				TableName:  "users",
				ColumnName: "username",
			},
			wantField: "username",
			wantMsg:   "user already exists",
		},
		{
			name: "duplicate tile id from detail",
			pgErr: &pgconn.PgError{
				Code:      pgerrcode.UniqueViolation,
				TableName: "dash",
				Detail:    `Key (id)=(3) already exists.`,
			},
			wantField: "id",
			wantMsg:   "dashboard tile already exists",
		},
		{
			name:      "unknown table without detail",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			wantField: "",
			wantMsg:   "record already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsConflict(err) {
				t.Fatalf("MapDBError() should be Conflict, got %v", GetCode(err))
			}
			if field := GetField(err); field != tt.wantField {
				t.Errorf("field = %q, want %q", field, tt.wantField)
			}
			var appErr *AppError
			if !errors.As(err, &appErr) || appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestMapDBError_ValidationViolations(t *testing.T) {
	for _, code := range []string{pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException} {
		t.Run(code, func(t *testing.T) {
			err := MapDBError(&pgconn.PgError{Code: code, ColumnName: "username"})
			if !IsValidation(err) {
				t.Fatalf("code %s should map to Validation, got %v", code, GetCode(err))
			}
			if GetField(err) != "username" {
				t.Errorf("field = %q, want username", GetField(err))
			}
		})
	}
}

func TestMapDBError_OtherPgErrorIsInternal(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})
	if !IsInternal(err) {
		t.Errorf("unhandled pg error should be Internal, got %v", GetCode(err))
	}
}

func TestMapDBError_PassThrough(t *testing.T) {
	orig := errors.New("boom")
	if got := MapDBError(orig); got != orig {
		t.Errorf("MapDBError() = %v, want original error", got)
	}
}
