// Package testutils holds helpers shared by repository and service tests.
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/archery-scorer/internal/db/bundb"
)

var dbSeq atomic.Int64

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLiteDB opens a private in-memory sqlite database, applies the given module
// migrations and closes the database when the test ends.
func NewSQLiteDB(t testing.TB, modules ...bundb.Module) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbSeq.Add(1))

	db, err := bundb.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := bundb.Migrate(context.Background(), db, DiscardLogger(), modules...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
