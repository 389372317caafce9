package history_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/db"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/fieldfmt"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/history"
	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/logging"
)

const (
	testPort     = 15433
	testDB       = "receipttest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var testDSN string

func TestMain(m *testing.M) {
	if os.Getenv("RECEIPTGEN_PG_TEST") != "1" {
		fmt.Fprintln(os.Stderr, "SKIP: set RECEIPTGEN_PG_TEST=1 to run export history tests against embedded postgres")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)
	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}
	os.Exit(code)
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, testDSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "DROP SCHEMA IF EXISTS receipt CASCADE")
	require.NoError(t, err)

	log := logging.Setup("text", "warn")
	require.NoError(t, db.ApplyMigrations(ctx, pool, log))
	// second run must be a no-op
	require.NoError(t, db.ApplyMigrations(ctx, pool, log))
	return pool
}

func sampleRun(sha string) *history.Run {
	return &history.Run{
		Kind:         "medical",
		FacilityCode: "1312345",
		Year:         2024,
		Month:        6,
		InputFile:    "claims.parquet",
		InputSHA256:  "in-" + sha,
		OutputFile:   "RECEIPTH.UKE",
		OutputSHA256: sha,
		Claims:       1,
		Lines:        3,
		TotalPoints:  1110,
		TotalAmount:  11100,
	}
}

func sampleLines() []string {
	return []string{
		fieldfmt.BuildLine("HM", "1", "13", "6", "1312345"),
		fieldfmt.BuildLine("GO"),
		fieldfmt.BuildLine("RE", "1", "6112"),
	}
}

func TestRegisterCopyAndStatus(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	log := logging.Setup("text", "warn")

	id, already, err := history.Register(ctx, pool, sampleRun("abc"), false)
	require.NoError(t, err)
	assert.False(t, already)

	n, err := history.CopyLines(ctx, pool, log, id, sampleLines())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, history.SetStatus(ctx, pool, id, history.StatusRecorded))

	var kind, content string
	err = pool.QueryRow(ctx,
		"SELECT record_kind, content FROM receipt.export_lines WHERE export_id = $1 AND line_number = 3", id,
	).Scan(&kind, &content)
	require.NoError(t, err)
	assert.Equal(t, "RE", kind)
	assert.Equal(t, "RE,1,6112\r\n", content)

	// identical output is recognized
	again, already, err := history.Register(ctx, pool, sampleRun("abc"), false)
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, id, again)
}

func TestRegister_ForceResetsLines(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)
	log := logging.Setup("text", "warn")

	id, _, err := history.Register(ctx, pool, sampleRun("def"), false)
	require.NoError(t, err)
	_, err = history.CopyLines(ctx, pool, log, id, sampleLines())
	require.NoError(t, err)
	require.NoError(t, history.SetStatus(ctx, pool, id, history.StatusRecorded))

	again, already, err := history.Register(ctx, pool, sampleRun("def"), true)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, id, again)

	count, err := history.LineCount(ctx, pool, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var status string
	require.NoError(t, pool.QueryRow(ctx, "SELECT status FROM receipt.export_runs WHERE export_id = $1", id).Scan(&status))
	assert.Equal(t, history.StatusPending, status)
}

func TestRegister_FailedRunIsRetried(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)

	id, _, err := history.Register(ctx, pool, sampleRun("ghi"), false)
	require.NoError(t, err)
	require.NoError(t, history.SetStatus(ctx, pool, id, history.StatusFailed))

	again, already, err := history.Register(ctx, pool, sampleRun("ghi"), false)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, id, again)
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	ctx := context.Background()
	pool := setupDB(t)

	id, _, err := history.Register(ctx, pool, sampleRun("jkl"), false)
	require.NoError(t, err)
	assert.Error(t, history.SetStatus(ctx, pool, id, "activated"))
}
