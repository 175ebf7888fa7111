package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	imgdomain "image-pipeline/internal/domain/image"
)

// recordRepository implements the image record Repository interface
// on top of PostgreSQL
type recordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new image record repository
func NewRecordRepository(db *sql.DB) imgdomain.Repository {
	return &recordRepository{db: db}
}

const recordColumns = `name, storage_path, width, height, origin, category,
	   node_id, session_id, is_intermediate, metadata, file_size, created_at`

// Create inserts a new image record
func (r *recordRepository) Create(ctx context.Context, record *imgdomain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO images (
			name, storage_path, width, height, origin, category,
			node_id, session_id, is_intermediate, metadata, file_size
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	var metadata interface{}
	if len(record.Metadata) > 0 {
		metadata = []byte(record.Metadata)
	}

	err := r.db.QueryRowContext(
		ctx, query,
		record.Name,
		record.StoragePath,
		record.Width,
		record.Height,
		record.Origin,
		record.Category,
		record.NodeID,
		record.SessionID,
		record.IsIntermediate,
		metadata,
		record.FileSize,
	).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert image record %s: %w", record.Name, err)
	}

	return nil
}

// GetByName retrieves a record by its image name
func (r *recordRepository) GetByName(ctx context.Context, name string) (*imgdomain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM images WHERE name = $1`

	record, err := r.scanRecord(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", imgdomain.ErrImageNotFound, name)
	}
	return record, err
}

// ListBySession retrieves all records produced within a session,
// oldest first
func (r *recordRepository) ListBySession(ctx context.Context, sessionID string) ([]*imgdomain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM images
		WHERE session_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session images: %w", err)
	}
	defer rows.Close()

	var records []*imgdomain.Record
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Delete removes a record by name
func (r *recordRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete image record %s: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", imgdomain.ErrImageNotFound, name)
	}

	return nil
}

// ExistsByName checks whether a record with the given name exists
func (r *recordRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM images WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check image existence: %w", err)
	}
	return exists, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *recordRepository) scanRecord(row rowScanner) (*imgdomain.Record, error) {
	record := &imgdomain.Record{}
	var metadata sql.NullString

	err := row.Scan(
		&record.Name,
		&record.StoragePath,
		&record.Width,
		&record.Height,
		&record.Origin,
		&record.Category,
		&record.NodeID,
		&record.SessionID,
		&record.IsIntermediate,
		&metadata,
		&record.FileSize,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if metadata.Valid {
		record.Metadata = []byte(metadata.String)
	}

	return record, nil
}
