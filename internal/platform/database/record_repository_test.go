package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imgdomain "image-pipeline/internal/domain/image"
)

func setupTestDatabase(t *testing.T) *sql.DB {
	testDBURL := os.Getenv("TEST_DATABASE_URL")
	if testDBURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := NewConnection(testDBURL)
	require.NoError(t, err, "Failed to connect to test database")

	_, err = db.Exec("DROP TABLE IF EXISTS images, schema_migrations CASCADE")
	require.NoError(t, err, "Failed to clean test tables")

	err = RunMigrations(db)
	require.NoError(t, err, "Failed to run migrations")

	return db
}

func testRecord(name string) *imgdomain.Record {
	return &imgdomain.Record{
		Name:        name,
		StoragePath: "images/" + name,
		Width:       512,
		Height:      384,
		Origin:      imgdomain.OriginInternal,
		Category:    imgdomain.CategoryGeneral,
		NodeID:      "node-1",
		SessionID:   "session-1",
		Metadata:    []byte(`{"source": "test"}`),
		FileSize:    2048,
	}
}

func TestRecordRepository_CreateAndGet(t *testing.T) {
	db := setupTestDatabase(t)
	defer db.Close()

	repo := NewRecordRepository(db)
	ctx := context.Background()

	record := testRecord("create-get.png")
	err := repo.Create(ctx, record)
	require.NoError(t, err)
	assert.False(t, record.CreatedAt.IsZero(), "Should have set created_at")

	retrieved, err := repo.GetByName(ctx, record.Name)
	require.NoError(t, err)
	assert.Equal(t, record.Name, retrieved.Name)
	assert.Equal(t, record.StoragePath, retrieved.StoragePath)
	assert.Equal(t, record.Width, retrieved.Width)
	assert.Equal(t, record.Height, retrieved.Height)
	assert.Equal(t, record.Origin, retrieved.Origin)
	assert.Equal(t, record.Category, retrieved.Category)
	assert.JSONEq(t, string(record.Metadata), string(retrieved.Metadata))
}

func TestRecordRepository_GetMissing(t *testing.T) {
	db := setupTestDatabase(t)
	defer db.Close()

	repo := NewRecordRepository(db)

	_, err := repo.GetByName(context.Background(), "does-not-exist.png")
	assert.ErrorIs(t, err, imgdomain.ErrImageNotFound)
}

func TestRecordRepository_CreateRejectsInvalid(t *testing.T) {
	db := setupTestDatabase(t)
	defer db.Close()

	repo := NewRecordRepository(db)

	record := testRecord("invalid.png")
	record.Origin = "somewhere"

	err := repo.Create(context.Background(), record)
	assert.ErrorIs(t, err, imgdomain.ErrInvalidOrigin)
}

func TestRecordRepository_ListBySession(t *testing.T) {
	db := setupTestDatabase(t)
	defer db.Close()

	repo := NewRecordRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := testRecord(fmt.Sprintf("session-img-%d.png", i))
		record.SessionID = "list-session"
		require.NoError(t, repo.Create(ctx, record))
	}

	other := testRecord("other-session.png")
	other.SessionID = "another-session"
	require.NoError(t, repo.Create(ctx, other))

	records, err := repo.ListBySession(ctx, "list-session")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "list-session", r.SessionID)
	}
}

func TestRecordRepository_Delete(t *testing.T) {
	db := setupTestDatabase(t)
	defer db.Close()

	repo := NewRecordRepository(db)
	ctx := context.Background()

	record := testRecord("delete-me.png")
	require.NoError(t, repo.Create(ctx, record))

	require.NoError(t, repo.Delete(ctx, record.Name))

	_, err := repo.GetByName(ctx, record.Name)
	assert.ErrorIs(t, err, imgdomain.ErrImageNotFound)

	err = repo.Delete(ctx, record.Name)
	assert.ErrorIs(t, err, imgdomain.ErrImageNotFound)
}

func TestRecordRepository_ExistsByName(t *testing.T) {
	db := setupTestDatabase(t)
	defer db.Close()

	repo := NewRecordRepository(db)
	ctx := context.Background()

	exists, err := repo.ExistsByName(ctx, "nope.png")
	require.NoError(t, err)
	assert.False(t, exists)

	record := testRecord("exists.png")
	require.NoError(t, repo.Create(ctx, record))

	exists, err = repo.ExistsByName(ctx, record.Name)
	require.NoError(t, err)
	assert.True(t, exists)
}
