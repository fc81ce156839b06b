package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/thebtf/lookbook/internal/history"
	"github.com/thebtf/lookbook/pkg/models"
)

// Store implements history.Store over the lineups and feedback tables.
var _ history.Store = (*Store)(nil)

// RecordLineup inserts a worn lineup row for the scope.
func (s *Store) RecordLineup(ctx context.Context, sc history.Scope, entry models.HistoryEntry) error {
	ids, err := json.Marshal(entry.ItemIDs)
	if err != nil {
		return fmt.Errorf("marshal item ids: %w", err)
	}

	const query = `
		INSERT INTO lineups (actor, mode, fingerprint, signature, item_ids, worn_date, entry_index, created_at_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.ExecContext(ctx, query,
		sc.Actor, sc.Mode, sc.Fingerprint,
		entry.Signature, string(ids), nullString(entry.Date), entry.Index,
		time.Now().UnixMilli(),
	)
	return err
}

// RecentLineups returns up to limit entries for the scope, newest first.
func (s *Store) RecentLineups(ctx context.Context, sc history.Scope, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT signature, item_ids, worn_date, entry_index
		FROM lineups
		WHERE actor = ? AND mode = ? AND fingerprint = ?
		ORDER BY created_at_epoch DESC, id DESC
		LIMIT ?
	`
	rows, err := s.QueryContext(ctx, query, sc.Actor, sc.Mode, sc.Fingerprint, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		var (
			entry models.HistoryEntry
			ids   string
			date  sql.NullString
		)
		if err := rows.Scan(&entry.Signature, &ids, &date, &entry.Index); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &entry.ItemIDs); err != nil {
			return nil, fmt.Errorf("unmarshal item ids: %w", err)
		}
		entry.Date = date.String
		out = append(out, entry)
	}
	return out, rows.Err()
}

// RecordFeedback inserts a feedback row for the scope.
func (s *Store) RecordFeedback(ctx context.Context, sc history.Scope, entry models.FeedbackEntry) error {
	ids, err := json.Marshal(entry.ItemIDs)
	if err != nil {
		return fmt.Errorf("marshal item ids: %w", err)
	}

	const query = `
		INSERT INTO feedback (actor, mode, fingerprint, signature, item_ids, feedback, temp_band, formality, created_at_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.ExecContext(ctx, query,
		sc.Actor, sc.Mode, sc.Fingerprint,
		entry.Signature, string(ids), entry.Feedback,
		nullString(string(entry.TempBand)), nullString(entry.Formality),
		time.Now().UnixMilli(),
	)
	return err
}

// RecentFeedback returns up to limit feedback rows for the scope, newest first.
func (s *Store) RecentFeedback(ctx context.Context, sc history.Scope, limit int) ([]models.FeedbackEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT signature, item_ids, feedback, temp_band, formality
		FROM feedback
		WHERE actor = ? AND mode = ? AND fingerprint = ?
		ORDER BY created_at_epoch DESC, id DESC
		LIMIT ?
	`
	rows, err := s.QueryContext(ctx, query, sc.Actor, sc.Mode, sc.Fingerprint, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FeedbackEntry
	for rows.Next() {
		var (
			entry    models.FeedbackEntry
			ids      string
			tempBand sql.NullString
			form     sql.NullString
		)
		if err := rows.Scan(&entry.Signature, &ids, &entry.Feedback, &tempBand, &form); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &entry.ItemIDs); err != nil {
			return nil, fmt.Errorf("unmarshal item ids: %w", err)
		}
		entry.TempBand = models.TempBand(tempBand.String)
		entry.Formality = form.String
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Stats counts rows across all scopes.
func (s *Store) Stats(ctx context.Context) (history.Stats, error) {
	var st history.Stats

	if err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM lineups").Scan(&st.Lineups); err != nil {
		return st, err
	}
	if err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&st.Feedback); err != nil {
		return st, err
	}

	const scopes = `
		SELECT COUNT(*) FROM (
			SELECT actor, mode, fingerprint FROM lineups
			UNION
			SELECT actor, mode, fingerprint FROM feedback
		)
	`
	err := s.QueryRowContext(ctx, scopes).Scan(&st.Scopes)
	return st, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
