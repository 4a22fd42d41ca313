package pkg

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestToErrorResponse_AppError(t *testing.T) {
	logger := zap.NewNop()
	err := NewAppError(ErrOutOfStockCode, "insufficient stock for product x", ErrOutOfStock)

	resp := ToErrorResponse(logger, "trace-1", err)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Equal(t, "BUSINESS_OUT_OF_STOCK", resp.Code)
	assert.Equal(t, "insufficient stock for product x", resp.Message)
}

func TestToErrorResponse_UnknownError(t *testing.T) {
	logger := zap.NewNop()

	resp := ToErrorResponse(logger, "trace-1", errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, ErrServerCode.Code, resp.Code)
}

func TestHandleSQLError_NoRows(t *testing.T) {
	logger := zap.NewNop()

	err := HandleSQLError("trace-1", logger, pgx.ErrNoRows)

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrRecordNotFoundCode, appErr.Code)
}

func TestHandleSQLError_PgCodes(t *testing.T) {
	logger := zap.NewNop()

	cases := []struct {
		pgCode string
		want   ErrorCode
	}{
		{"23505", ErrSQLDuplicateCode},
		{"23503", ErrSQLConflictCode},
		{"23514", ErrBusinessRuleCode},
		{"22P02", ErrSQLInvalidInput},
		{"99999", ErrSQLUnknownCode},
	}
	for _, tc := range cases {
		err := HandleSQLError("trace-1", logger, &pgconn.PgError{Code: tc.pgCode})
		var appErr AppError
		assert.True(t, errors.As(err, &appErr), "code %s", tc.pgCode)
		assert.Equal(t, tc.want, appErr.Code, "code %s", tc.pgCode)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError(ErrServerCode, "wrapped", cause)
	assert.True(t, errors.Is(err, cause))
}
