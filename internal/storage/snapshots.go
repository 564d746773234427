package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/model"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// payloadTag reuses the json field names for the msgpack payload.
const payloadTag = "json"

// SaveSnapshot archives snap. A missing ID is generated and CreatedAt is set.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	payload, err := encodeExport(snap.Export)
	if err != nil {
		return err
	}

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	snap.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, source_id, file_name, export_date, export_ts, account, character,
			completed, total, completion_percent, payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.SourceID, snap.FileName, snap.ExportDate, nullTime(snap.ExportTimestamp),
		snap.Account, snap.Character, snap.Completed, snap.Total, snap.CompletionPercent,
		payload, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// ListSnapshots returns every snapshot without its export, oldest export first.
// Snapshots without an export time follow in archive order.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, file_name, export_date, export_ts, account, character,
		       completed, total, completion_percent, created_at
		FROM snapshots
		ORDER BY export_ts IS NULL, export_ts, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshots := []model.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// GetSnapshot returns one snapshot with its export decoded.
func (s *SQLiteStorage) GetSnapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var payload []byte
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_id, file_name, export_date, export_ts, account, character,
		       completed, total, completion_percent, created_at, payload
		FROM snapshots
		WHERE id = ?`, id)

	snap, err := scanSnapshot(func(dest ...any) error {
		return row.Scan(append(dest, &payload)...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	export, err := decodeExport(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	snap.Export = export

	return snap, nil
}

// DeleteSnapshot removes a snapshot.
func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanSnapshot(scan func(dest ...any) error) (*model.Snapshot, error) {
	var (
		snap     model.Snapshot
		sourceID sql.NullString
		exportTS sql.NullTime
	)

	err := scan(
		&snap.ID, &sourceID, &snap.FileName, &snap.ExportDate, &exportTS,
		&snap.Account, &snap.Character, &snap.Completed, &snap.Total,
		&snap.CompletionPercent, &snap.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap.SourceID = sourceID.String
	if exportTS.Valid {
		ts := exportTS.Time.UTC()
		snap.ExportTimestamp = &ts
	}
	snap.CreatedAt = snap.CreatedAt.UTC()

	return &snap, nil
}

func encodeExport(export *model.Export) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(payloadTag)
	if err := enc.Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeExport(payload []byte) (*model.Export, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag(payloadTag)

	var export model.Export
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}

	// msgpack restores times in the local zone
	if export.ExportTimestamp != nil {
		ts := export.ExportTimestamp.UTC()
		export.ExportTimestamp = &ts
	}
	for i := range export.Records {
		if t := export.Records[i].CompletionTime; t != nil {
			ts := t.UTC()
			export.Records[i].CompletionTime = &ts
		}
	}

	return &export, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
