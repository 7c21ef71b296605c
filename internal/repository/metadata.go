package repository

import (
	"context"
	"fmt"

	"github.com/modelkeep/modelkeep/internal/model"
)

// CreateMetadata inserts a new metadata record.
func (r *Repository) CreateMetadata(ctx context.Context, record *model.MetadataRecord) error {
	query := `
		INSERT INTO metadata (id, file_name, metadata_json, owner_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.FileName,
		record.MetadataJSON,
		record.OwnerID,
		record.UploadedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create metadata record: %w", err)
	}

	return nil
}

// ListMetadataByOwner retrieves all metadata records belonging to ownerID,
// oldest first. Returns an empty slice when the owner has none.
func (r *Repository) ListMetadataByOwner(ctx context.Context, ownerID string) ([]*model.MetadataRecord, error) {
	query := `
		SELECT id, file_name, metadata_json, owner_id, uploaded_at
		FROM metadata
		WHERE owner_id = $1
		ORDER BY uploaded_at, id
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	records := make([]*model.MetadataRecord, 0)
	for rows.Next() {
		var record model.MetadataRecord
		if err := rows.Scan(
			&record.ID,
			&record.FileName,
			&record.MetadataJSON,
			&record.OwnerID,
			&record.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata rows: %w", err)
	}

	return records, nil
}

// DeleteMetadata removes the record with the given id if it belongs to
// ownerID. Returns false when no row matched, which deliberately does not
// distinguish "no such record" from "owned by someone else".
func (r *Repository) DeleteMetadata(ctx context.Context, ownerID, id string) (bool, error) {
	query := `
		DELETE FROM metadata
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete metadata record: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
