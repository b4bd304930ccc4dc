package sqldb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/smartnlp/internal/models"
	"github.com/iudanet/smartnlp/internal/server/storage"
)

// CreateOperation stores a new operation record
func (s *Storage) CreateOperation(ctx context.Context, op *models.Operation) (*models.Operation, error) {
	if op == nil {
		return nil, fmt.Errorf("operation is nil")
	}

	record := *op
	if record.ID == "" {
		// UUIDv7 упорядочен по времени, что дает стабильный порядок при равных created_at
		id, err := uuid.NewV7()
		if err != nil {
			return nil, storage.Wrap("generate operation id", err)
		}
		record.ID = id.String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if record.Metadata == nil {
		record.Metadata = map[string]any{}
	}

	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return nil, storage.Wrap("marshal operation metadata", err)
	}

	query := `
		INSERT INTO nlp_operations (
			id, user_id, type, input_text, output_text,
			metadata, processing_time, model_version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(query),
		record.ID,
		record.UserID,
		string(record.Kind),
		record.InputText,
		record.OutputText,
		string(metadata),
		record.ProcessingTime,
		record.ModelVersion,
		record.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, storage.Wrap("insert operation", err)
	}

	record.CreatedAt = time.UnixMilli(record.CreatedAt.UnixMilli())

	return &record, nil
}

// ListOperations returns the user's operations newest first
func (s *Storage) ListOperations(ctx context.Context, userID string, opts storage.ListOptions) ([]*models.Operation, error) {
	query := `
		SELECT id, user_id, type, input_text, output_text,
		       metadata, processing_time, model_version, created_at
		FROM nlp_operations
		WHERE user_id = ?
	`
	args := []any{userID}

	if opts.Kind != "" {
		query += ` AND type = ?`
		args = append(args, string(opts.Kind))
	}

	query += ` ORDER BY created_at DESC, id DESC`

	// Без limit отдаем все записи; offset без limit в SQLite требует LIMIT -1
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	} else if opts.Offset > 0 {
		if s.dialect.sqlite {
			query += ` LIMIT -1 OFFSET ?`
		} else {
			query += ` OFFSET ?`
		}
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, storage.Wrap("query operations", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	operations := make([]*models.Operation, 0)

	for rows.Next() {
		op := &models.Operation{}
		var (
			kind      string
			metadata  []byte
			createdAt int64
		)

		if err := rows.Scan(
			&op.ID,
			&op.UserID,
			&kind,
			&op.InputText,
			&op.OutputText,
			&metadata,
			&op.ProcessingTime,
			&op.ModelVersion,
			&createdAt,
		); err != nil {
			return nil, storage.Wrap("scan operation", err)
		}

		op.Kind = models.Kind(kind)
		op.CreatedAt = time.UnixMilli(createdAt)
		op.Metadata = map[string]any{}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &op.Metadata); err != nil {
				return nil, storage.Wrap("unmarshal operation metadata", err)
			}
		}

		operations = append(operations, op)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate operations", err)
	}

	return operations, nil
}

// DeleteUserOperations deletes every operation of the user
func (s *Storage) DeleteUserOperations(ctx context.Context, userID string) (int, error) {
	query := `DELETE FROM nlp_operations WHERE user_id = ?`

	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query), userID)
	if err != nil {
		return 0, storage.Wrap("delete user operations", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storage.Wrap("rows affected", err)
	}

	return int(rows), nil
}

// OperationStats returns per-kind counts of the user's operations
func (s *Storage) OperationStats(ctx context.Context, userID string) (*models.OperationStats, error) {
	query := `
		SELECT type, COUNT(*)
		FROM nlp_operations
		WHERE user_id = ?
		GROUP BY type
	`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), userID)
	if err != nil {
		return nil, storage.Wrap("query operation stats", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	stats := &models.OperationStats{}

	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, storage.Wrap("scan operation stats", err)
		}
		stats.Add(models.Kind(kind), count)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Wrap("iterate operation stats", err)
	}

	return stats, nil
}
