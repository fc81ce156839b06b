package gorm

import (
	"context"
	"database/sql"

	"github.com/thebtf/lookbook/internal/history"
	"github.com/thebtf/lookbook/pkg/models"
)

// Store implements history.Store over the lineups and feedback tables.
var _ history.Store = (*Store)(nil)

// RecordLineup inserts a worn lineup row for the scope.
func (s *Store) RecordLineup(ctx context.Context, sc history.Scope, entry models.HistoryEntry) error {
	rec := LineupRecord{
		Actor:       sc.Actor,
		Mode:        sc.Mode,
		Fingerprint: sc.Fingerprint,
		Signature:   entry.Signature,
		ItemIDs:     Int64List(entry.ItemIDs),
		WornDate:    sql.NullString{String: entry.Date, Valid: entry.Date != ""},
		EntryIndex:  entry.Index,
	}
	return s.DB.WithContext(ctx).Create(&rec).Error
}

// RecentLineups returns up to limit entries for the scope, newest first.
func (s *Store) RecentLineups(ctx context.Context, sc history.Scope, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var recs []LineupRecord
	err := s.DB.WithContext(ctx).
		Where("actor = ? AND mode = ? AND fingerprint = ?", sc.Actor, sc.Mode, sc.Fingerprint).
		Order("created_at_epoch DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.HistoryEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.HistoryEntry{
			Signature: r.Signature,
			ItemIDs:   []int64(r.ItemIDs),
			Date:      r.WornDate.String,
			Index:     r.EntryIndex,
		})
	}
	return out, nil
}

// RecordFeedback inserts a feedback row for the scope.
func (s *Store) RecordFeedback(ctx context.Context, sc history.Scope, entry models.FeedbackEntry) error {
	rec := FeedbackRecord{
		Actor:       sc.Actor,
		Mode:        sc.Mode,
		Fingerprint: sc.Fingerprint,
		Signature:   entry.Signature,
		ItemIDs:     Int64List(entry.ItemIDs),
		Feedback:    entry.Feedback,
		TempBand:    sql.NullString{String: string(entry.TempBand), Valid: entry.TempBand != ""},
		Formality:   sql.NullString{String: entry.Formality, Valid: entry.Formality != ""},
	}
	return s.DB.WithContext(ctx).Create(&rec).Error
}

// RecentFeedback returns up to limit feedback rows for the scope, newest first.
func (s *Store) RecentFeedback(ctx context.Context, sc history.Scope, limit int) ([]models.FeedbackEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var recs []FeedbackRecord
	err := s.DB.WithContext(ctx).
		Where("actor = ? AND mode = ? AND fingerprint = ?", sc.Actor, sc.Mode, sc.Fingerprint).
		Order("created_at_epoch DESC, id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.FeedbackEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.FeedbackEntry{
			Signature: r.Signature,
			ItemIDs:   []int64(r.ItemIDs),
			Feedback:  r.Feedback,
			TempBand:  models.TempBand(r.TempBand.String),
			Formality: r.Formality.String,
		})
	}
	return out, nil
}

// Stats counts rows across all scopes.
func (s *Store) Stats(ctx context.Context) (history.Stats, error) {
	var st history.Stats
	var n int64

	db := s.DB.WithContext(ctx)
	if err := db.Model(&LineupRecord{}).Count(&n).Error; err != nil {
		return st, err
	}
	st.Lineups = int(n)

	if err := db.Model(&FeedbackRecord{}).Count(&n).Error; err != nil {
		return st, err
	}
	st.Feedback = int(n)

	const scopes = `
		SELECT COUNT(*) FROM (
			SELECT actor, mode, fingerprint FROM lineups
			UNION
			SELECT actor, mode, fingerprint FROM feedback
		) AS s
	`
	if err := db.Raw(scopes).Scan(&n).Error; err != nil {
		return st, err
	}
	st.Scopes = int(n)

	return st, nil
}
