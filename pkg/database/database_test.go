package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/ghuser/restocker/pkg/logger"
)

func nopLogger() logger.Logger {
	return logger.NewJSON(os.Stderr, "error")
}

func TestNewPool_UnreachableHost(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://u:p@127.0.0.1:1/restocker?sslmode=disable&connect_timeout=1", nopLogger())
	if err == nil {
		t.Fatal("expected error when Postgres is unreachable, got nil")
	}
}

// Integration tests — skipped unless DATABASE_URL is set.
func TestDatabaseIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}

	db, err := NewPool(context.Background(), url, nopLogger())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer db.Close() //nolint:errcheck

	t.Run("Ping", func(t *testing.T) {
		if err := db.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("WithTx_RollsBackOnError", func(t *testing.T) {
		sentinel := errors.New("abort")
		err := db.WithTx(context.Background(), func(tx *sql.Tx) error {
			if _, err := tx.Exec("CREATE TEMP TABLE tx_probe (id int) ON COMMIT DROP"); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
	})

	t.Run("WithTx_Commits", func(t *testing.T) {
		var got int
		err := db.WithTx(context.Background(), func(tx *sql.Tx) error {
			return tx.QueryRow("SELECT 41 + 1").Scan(&got)
		})
		if err != nil {
			t.Fatalf("WithTx: %v", err)
		}
		if got != 42 {
			t.Fatalf("expected 42, got %d", got)
		}
	})
}
