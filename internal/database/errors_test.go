package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		class     ErrorClass
		retryable bool
	}{
		{name: "nil", err: nil, class: ErrorClassPermanent},
		{name: "plain error", err: errors.New("boom"), class: ErrorClassPermanent},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, class: ErrorClassSerialization, retryable: true},
		{name: "deadlock wrapped", err: fmt.Errorf("save cart: %w", &pgconn.PgError{Code: "40P01"}), class: ErrorClassDeadlock, retryable: true},
		{name: "lock not available", err: &pgconn.PgError{Code: "55P03"}, class: ErrorClassTransient, retryable: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, class: ErrorClassPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, ClassifyError(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("23505")))
}

func TestBackoff(t *testing.T) {
	base := 10 * time.Millisecond

	for attempt := 0; attempt < 4; attempt++ {
		d := Backoff(attempt, base)
		floor := base << attempt
		assert.GreaterOrEqual(t, d, floor)
		assert.Less(t, d, floor+floor/4+time.Nanosecond)
	}

	assert.Zero(t, Backoff(3, 0))
	assert.LessOrEqual(t, Backoff(40, base), 5*time.Second+5*time.Second/4)
}
