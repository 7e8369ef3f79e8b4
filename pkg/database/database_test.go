package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/inventra/pkg/config"
	"github.com/ghuser/inventra/pkg/logger"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped deadlock", fmt.Errorf("update stock: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "orders_org_number_key"})
	name, ok := IsUniqueViolation(err)
	if !ok {
		t.Fatal("expected unique violation")
	}
	if name != "orders_org_number_key" {
		t.Fatalf("unexpected constraint name %q", name)
	}

	if _, ok := IsUniqueViolation(errors.New("other")); ok {
		t.Fatal("plain error must not be reported as unique violation")
	}
}

func TestWithMaxRetries(t *testing.T) {
	d := New(nil, nil, WithMaxRetries(5))
	if d.maxRetries != 5 {
		t.Fatalf("expected 5 retries, got %d", d.maxRetries)
	}

	d = New(nil, nil, WithMaxRetries(0))
	if d.maxRetries != defaultMaxRetries {
		t.Fatalf("expected default retries for non-positive input, got %d", d.maxRetries)
	}
}

// Integration tests are skipped unless TEST_DATABASE_URL is set.
func TestWithTxIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	}

	log := logger.New(&config.Config{LogLevel: "error"})
	d, err := NewPool(context.Background(), url, log)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer d.Close()

	ctx := context.Background()
	if _, err := d.DB().ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tx_probe (n int)`); err != nil {
		t.Fatalf("create probe table: %v", err)
	}
	defer d.DB().ExecContext(ctx, `DROP TABLE IF EXISTS tx_probe`) //nolint:errcheck

	t.Run("rollback on error", func(t *testing.T) {
		wantErr := errors.New("abort")
		err := d.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tx_probe (n) VALUES (1)`); err != nil {
				return err
			}
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected abort error, got %v", err)
		}
	})

	t.Run("commit on success", func(t *testing.T) {
		if err := d.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO tx_probe (n) VALUES (2)`)
			return err
		}); err != nil {
			t.Fatalf("WithTx: %v", err)
		}
	})
}
