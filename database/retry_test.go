package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
		EnableRetry:  true,
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no rows", sql.ErrNoRows, false},
		{"canceled", context.Canceled, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"wrapped serialization", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40001"}), true},
		{"reset by peer", errors.New("read tcp: connection reset by peer"), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestRetryWithBackoff_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), fastRetry(), func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), fastRetry(), func() error {
		attempts++
		return &pgconn.PgError{Code: "23505"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), fastRetry(), func() error {
		attempts++
		return errors.New("broken pipe")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_Disabled(t *testing.T) {
	cfg := fastRetry()
	cfg.EnableRetry = false
	attempts := 0
	_ = RetryWithBackoff(context.Background(), cfg, func() error {
		attempts++
		return errors.New("broken pipe")
	})
	assert.Equal(t, 1, attempts)
}

func TestNormalizePageAndPagination(t *testing.T) {
	page, size := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	_, size = NormalizePage(2, 500)
	assert.Equal(t, MaxPageSize, size)

	p := NewPagination(2, 20, 41)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 41, p.Total)
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, ASC, ParseDirection("asc"))
	assert.Equal(t, ASC, ParseDirection("ASC"))
	assert.Equal(t, DESC, ParseDirection(""))
	assert.Equal(t, DESC, ParseDirection("bogus"))
}
