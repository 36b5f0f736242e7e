package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// testLocation is the business timezone the integration pool scans
// timestamps into.
var testLocation = time.FixedZone("WIB", 7*60*60)

// TestDatabaseSetup holds a migrated connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. Tests
// are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, testLocation)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.Migrate(ctx))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from the schema's tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendances",
		"users",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateUser inserts a user and returns its id.
func (t *TestDatabaseSetup) CreateUser(tb testing.TB, name, email string, roles []string, active bool) string {
	tb.Helper()

	var id string
	err := t.DB.QueryRow(context.Background(), `
		INSERT INTO users (id, name, email, roles, is_active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id
	`, name, email, roles, active).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
