package worker

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/internal/composer"
	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/history"
	"github.com/thebtf/lookbook/internal/intent"
	"github.com/thebtf/lookbook/internal/rerank"
	"github.com/thebtf/lookbook/internal/sequence"
	"github.com/thebtf/lookbook/pkg/models"
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error envelope with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleHealth handles health check requests.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

// ComposeRequest asks for one lineup over the supplied catalog.
type ComposeRequest struct {
	Actor  string           `json:"actor"`
	Mode   string           `json:"mode,omitempty"`
	Date   string           `json:"date,omitempty"`
	Items  []models.Item    `json:"items"`
	Intent intent.RawIntent `json:"intent"`
	Anchor *models.Anchor   `json:"anchor,omitempty"`
	// Commit records the lineup into history as worn.
	Commit bool `json:"commit,omitempty"`
}

// ComposeResponse carries the composed lineup.
type ComposeResponse struct {
	Lineup         *models.Lineup    `json:"lineup,omitempty"`
	Missing        []models.Category `json:"missing_categories,omitempty"`
	AnchorViolated bool              `json:"anchor_violated,omitempty"`
}

func (s *Service) handleComposeLineup(w http.ResponseWriter, r *http.Request) {
	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}

	ci, err := intent.FromRaw(req.Intent)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	scope := history.Scope{Actor: req.Actor, Mode: req.Mode}
	prior, err := s.store.RecentLineups(ctx, scope, s.config.Diversity.HistoryWindow)
	if err != nil {
		log.Error().Err(err).Str("actor", req.Actor).Msg("History lookup failed")
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	idx := catalog.NewIndex(req.Items)
	pool := composer.BuildPool(idx, s.eval, ci, constraint.StrictEnvelope())
	outcome := s.assigner.Assign(pool, ci, nil, req.Anchor, nil)
	if !outcome.OK() {
		writeJSONStatus(w, http.StatusUnprocessableEntity, ComposeResponse{
			Missing:        outcome.Missing,
			AnchorViolated: outcome.AnchorViolated,
		})
		return
	}

	lineup := s.diversifier.Diversify(*outcome.Lineup, pool, ci, composer.History{Recent: prior}, nil, nil)
	lineup.Confidence = lineup.MatchScore / 100

	if req.Commit {
		entry := models.HistoryEntry{
			Signature: lineup.Signature,
			ItemIDs:   lineup.ItemIDs,
			Date:      req.Date,
		}
		if err := s.store.RecordLineup(ctx, scope, entry); err != nil {
			log.Error().Err(err).Str("signature", lineup.Signature).Msg("Failed to record lineup")
			writeError(w, http.StatusInternalServerError, "failed to record lineup")
			return
		}
	}

	writeJSON(w, ComposeResponse{Lineup: &lineup})
}

// SequenceEntry is one requested day of a trip.
type SequenceEntry struct {
	Date   string           `json:"date"`
	Kind   string           `json:"kind"` // stay or travel
	Intent intent.RawIntent `json:"intent"`
}

// SequenceRequest asks for a multi-day plan.
type SequenceRequest struct {
	Actor       string          `json:"actor"`
	Destination string          `json:"destination"`
	Reason      string          `json:"reason"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Items       []models.Item   `json:"items"`
	Entries     []SequenceEntry `json:"entries"`
	// Commit records each planned lineup into the trip's history scope.
	Commit bool `json:"commit,omitempty"`
}

// SequenceResponse carries the per-entry outcomes and resolved locks.
type SequenceResponse struct {
	Fingerprint string                    `json:"fingerprint"`
	Entries     []sequence.EntryResult    `json:"entries"`
	Locks       map[models.Category]int64 `json:"locks,omitempty"`
}

func (s *Service) handleSequence(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 || len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "items and entries are required")
		return
	}

	// Validate every entry intent up front, concurrently; one bad day
	// rejects the whole request before any planning work.
	entries := make([]sequence.Entry, len(req.Entries))
	var g errgroup.Group
	for i, e := range req.Entries {
		i, e := i, e
		g.Go(func() error {
			kind := sequence.EntryKind(e.Kind)
			if kind != sequence.EntryStay && kind != sequence.EntryTravel {
				return errors.New("entry kind must be stay or travel")
			}
			ci, err := intent.FromRaw(e.Intent)
			if err != nil {
				return err
			}
			entries[i] = sequence.Entry{Date: e.Date, Kind: kind, Intent: ci}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	fp := history.SequenceFingerprint(req.Destination, req.Reason, req.StartDate, req.EndDate)
	scope := history.Scope{Actor: req.Actor, Mode: "sequence", Fingerprint: fp}
	prior, err := s.store.RecentLineups(ctx, scope, 0)
	if err != nil {
		log.Error().Err(err).Str("actor", req.Actor).Msg("History lookup failed")
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}

	idx := catalog.NewIndex(req.Items)
	result, err := s.planner.Plan(idx, entries, prior)
	if err != nil {
		if errors.Is(err, sequence.ErrLockConflict) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "sequence planning failed")
		return
	}

	if req.Commit {
		for i, e := range result.Entries {
			if e.Lineup == nil {
				continue
			}
			entry := models.HistoryEntry{
				Signature: e.Lineup.Signature,
				ItemIDs:   e.Lineup.ItemIDs,
				Date:      e.Date,
				Index:     i,
			}
			if err := s.store.RecordLineup(ctx, scope, entry); err != nil {
				log.Error().Err(err).Str("signature", e.Lineup.Signature).Msg("Failed to record sequence entry")
				writeError(w, http.StatusInternalServerError, "failed to record sequence entry")
				return
			}
		}
	}

	resp := SequenceResponse{Fingerprint: fp, Entries: result.Entries}
	if result.Locks != nil && len(result.Locks.Items) > 0 {
		resp.Locks = result.Locks.Items
	}
	writeJSON(w, resp)
}

// RerankRequest asks for validation and reranking of proposed lineups.
type RerankRequest struct {
	Actor      string             `json:"actor"`
	Mode       string             `json:"mode,omitempty"`
	Items      []models.Item      `json:"items"`
	Intent     intent.RawIntent   `json:"intent"`
	Anchor     *models.Anchor     `json:"anchor,omitempty"`
	Candidates []rerank.Candidate `json:"candidates"`
}

// RerankResponse carries the winner and the full ranking.
type RerankResponse struct {
	Lineup  *models.Lineup        `json:"lineup,omitempty"`
	Ranking []rerank.RankedResult `json:"ranking,omitempty"`
}

func (s *Service) handleRerank(w http.ResponseWriter, r *http.Request) {
	var req RerankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items are required")
		return
	}

	ci, err := intent.FromRaw(req.Intent)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	scope := history.Scope{Actor: req.Actor, Mode: req.Mode}
	prior, err := s.store.RecentLineups(ctx, scope, s.config.Diversity.HistoryWindow)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history lookup failed")
		return
	}
	feedback, err := s.store.RecentFeedback(ctx, scope, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "feedback lookup failed")
		return
	}

	idx := catalog.NewIndex(req.Items)
	lineup, ranking := s.selector.Select(idx, req.Candidates, ci, req.Anchor, prior, feedback)
	if lineup == nil {
		writeJSONStatus(w, http.StatusUnprocessableEntity, RerankResponse{})
		return
	}

	writeJSON(w, RerankResponse{Lineup: lineup, Ranking: ranking})
}

// FeedbackRequest records user feedback on a previously served lineup.
type FeedbackRequest struct {
	Actor     string          `json:"actor"`
	Mode      string          `json:"mode,omitempty"`
	ItemIDs   []int64         `json:"item_ids"`
	Feedback  int             `json:"feedback"` // -1, 0, 1
	TempBand  models.TempBand `json:"temp_band,omitempty"`
	Formality string          `json:"formality,omitempty"`
}

func (s *Service) handleFeedback(w http.ResponseWriter, r *http.Request) {
	signature := chi.URLParam(r, "signature")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Feedback < -1 || req.Feedback > 1 {
		writeError(w, http.StatusBadRequest, "feedback must be -1, 0 or 1")
		return
	}

	entry := models.FeedbackEntry{
		Signature: signature,
		ItemIDs:   req.ItemIDs,
		Feedback:  req.Feedback,
		TempBand:  req.TempBand,
		Formality: req.Formality,
	}
	scope := history.Scope{Actor: req.Actor, Mode: req.Mode}
	if err := s.store.RecordFeedback(r.Context(), scope, entry); err != nil {
		log.Error().Err(err).Str("signature", signature).Msg("Failed to record feedback")
		writeError(w, http.StatusInternalServerError, "failed to record feedback")
		return
	}

	writeJSON(w, map[string]string{"status": "recorded"})
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats lookup failed")
		return
	}

	writeJSON(w, map[string]interface{}{
		"history":        st,
		"rate_limiter":   s.limiter.Stats(),
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

// writeJSONStatus writes JSON with a non-200 status code.
func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
