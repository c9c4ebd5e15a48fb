package postgres

import (
	"context"
	"encoding/json"
	"fmt"
)

// BackupStore dumps and restores whole tables as JSON rows. Table names
// come from the backup document's fixed table list, never from user
// input, so identifiers are interpolated directly.
type BackupStore struct {
	txManager *TxManager
}

// NewBackupStore creates a backup store bound to the transaction manager.
func NewBackupStore(txManager *TxManager) *BackupStore {
	return &BackupStore{txManager: txManager}
}

// DumpTable returns every row of the table as JSON objects, in primary
// key order so dumps are reproducible.
func (s *BackupStore) DumpTable(ctx context.Context, table string) ([]json.RawMessage, error) {
	sql := fmt.Sprintf("SELECT to_jsonb(t) FROM %s t ORDER BY t.id", table)
	if table == "sys_sequences" {
		sql = "SELECT to_jsonb(t) FROM sys_sequences t ORDER BY t.key"
	}

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	defer rows.Close()

	result := []json.RawMessage{}
	for rows.Next() {
		var raw json.RawMessage
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		result = append(result, raw)
	}

	return result, rows.Err()
}

// DeleteAll removes every row of the table.
func (s *BackupStore) DeleteAll(ctx context.Context, table string) error {
	sql := fmt.Sprintf("DELETE FROM %s", table)
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

// InsertRows bulk-inserts JSON rows verbatim. jsonb_populate_recordset
// maps object keys back onto table columns, so dumps restore without
// per-table column lists.
func (s *BackupStore) InsertRows(ctx context.Context, table string, rows []json.RawMessage) error {
	if len(rows) == 0 {
		return nil
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal %s rows: %w", table, err)
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s SELECT * FROM jsonb_populate_recordset(NULL::%s, $1::jsonb)",
		table, table,
	)
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, payload); err != nil {
		return fmt.Errorf("restore %s: %w", table, err)
	}

	// Restored rows carry their original IDs, so the identity
	// sequence must land past the highest one.
	if table != "sys_sequences" {
		resync := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s",
			table, table,
		)
		if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, resync); err != nil {
			return fmt.Errorf("resync %s sequence: %w", table, err)
		}
	}

	return nil
}
