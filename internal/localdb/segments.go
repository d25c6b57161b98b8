package localdb

import (
	"database/sql"
	"fmt"

	"github.com/tistolabs/ruleta-overlay/internal/shared/logger"
	"github.com/tistolabs/ruleta-overlay/internal/types"
	"go.uber.org/zap"
)

// defaultSegments seeds a fresh database so the wheel is usable before
// the first admin edit.
var defaultSegments = []types.Segment{
	{ID: "seg_1", Text: "Premio 1", Color: "#ef4444"},
	{ID: "seg_2", Text: "Premio 2", Color: "#f59e0b"},
	{ID: "seg_3", Text: "Premio 3", Color: "#10b981"},
	{ID: "seg_4", Text: "Premio 4", Color: "#3b82f6"},
	{ID: "seg_5", Text: "Premio 5", Color: "#8b5cf6"},
	{ID: "seg_6", Text: "Premio 6", Color: "#ec4899"},
}

// SetupSegmentsTable creates the segments table and seeds defaults when empty.
func SetupSegmentsTable(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS segments (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		color TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		logger.Error("Failed to create segments table", zap.Error(err))
		return fmt.Errorf("failed to create segments table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM segments`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count segments: %w", err)
	}

	if count == 0 {
		if err := replaceSegments(db, defaultSegments); err != nil {
			return err
		}
		logger.Info("Seeded default segments", zap.Int("count", len(defaultSegments)))
	}

	return nil
}

// GetSegments returns the current segment list in wheel order.
func GetSegments() ([]types.Segment, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := db.Query(`SELECT id, text, color FROM segments ORDER BY position ASC`)
	if err != nil {
		logger.Error("Failed to query segments", zap.Error(err))
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	segments := []types.Segment{}
	for rows.Next() {
		var s types.Segment
		if err := rows.Scan(&s.ID, &s.Text, &s.Color); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, s)
	}

	return segments, rows.Err()
}

// ReplaceSegments swaps the stored list wholesale; there is no partial
// merge, the admin commit always carries the full list.
func ReplaceSegments(segments []types.Segment) error {
	db := GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return replaceSegments(db, segments)
}

func replaceSegments(db *sql.DB, segments []types.Segment) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM segments`); err != nil {
		return fmt.Errorf("failed to clear segments: %w", err)
	}

	for i, s := range segments {
		if _, err := tx.Exec(
			`INSERT INTO segments (position, id, text, color) VALUES (?, ?, ?, ?)`,
			i, s.ID, s.Text, s.Color,
		); err != nil {
			return fmt.Errorf("failed to insert segment %q: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit segments: %w", err)
	}

	logger.Info("Segments replaced", zap.Int("count", len(segments)))
	return nil
}
