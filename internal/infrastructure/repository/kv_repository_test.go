package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/receipt-studio/internal/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError(nil))

	for _, code := range []string{pgDiskFull, pgProgramLimitExceeded, pgStringTooLong} {
		err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, Message: "too big"})
		assert.ErrorIs(t, mapWriteError(err), repository.ErrQuotaExceeded, "code %s", code)
	}

	other := &pgconn.PgError{Code: "23505", Message: "duplicate"}
	mapped := mapWriteError(other)
	assert.False(t, errors.Is(mapped, repository.ErrQuotaExceeded))
	assert.Equal(t, other, mapped)
}
