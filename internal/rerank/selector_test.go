package rerank

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/pkg/models"
)

// SelectorSuite is a test suite for candidate reranking.
type SelectorSuite struct {
	suite.Suite
	selector *Selector
	idx      *catalog.Index
	intent   models.CanonicalIntent
}

func (s *SelectorSuite) SetupTest() {
	s.selector = NewSelector(nil, nil, nil)
	s.intent = models.CanonicalIntent{Weather: []string{"cold"}}
	s.idx = catalog.NewIndex([]models.Item{
		{ID: 1, Type: "parka", Weather: []string{"cold"}, StyleTag: "outdoor"},
		{ID: 2, Type: "coat", Weather: []string{"cold"}, StyleTag: "minimal"},
		{ID: 10, Type: "shirt", Weather: []string{"cold"}, StyleTag: "minimal"},
		{ID: 11, Type: "sweater", Weather: []string{"cold"}, StyleTag: "outdoor"},
		{ID: 20, Type: "jeans", Weather: []string{"cold"}, StyleTag: "minimal"},
		{ID: 30, Type: "boots", Weather: []string{"cold"}, StyleTag: "outdoor"},
		{ID: 40, Type: "summer shorts", Weather: []string{"hot"}},
	})
}

func TestSelectorSuite(t *testing.T) {
	suite.Run(t, new(SelectorSuite))
}

// =============================================================================
// GOOD SCENARIOS - Expected normal operations
// =============================================================================

func (s *SelectorSuite) TestSelect_GoodScenarios_HighestConfidenceWins() {
	candidates := []Candidate{
		{ItemIDs: []int64{1, 10, 20, 30}, Confidence: 0.6},
		{ItemIDs: []int64{2, 10, 20, 30}, Confidence: 0.9},
	}

	best, results := s.selector.Select(s.idx, candidates, s.intent, nil, nil, nil)

	require.NotNil(s.T(), best)
	require.Len(s.T(), results, 2)
	s.Equal("2-10-20-30", best.Signature)
	s.Equal(2, results[0].OriginalRank)
	s.False(results[0].Fallback)
}

func (s *SelectorSuite) TestSelect_GoodScenarios_RepeatPenaltyDemotes() {
	history := []models.HistoryEntry{
		{Signature: "2-10-20-30", ItemIDs: []int64{2, 10, 20, 30}},
		{Signature: "2-10-20-30", ItemIDs: []int64{2, 10, 20, 30}},
	}
	candidates := []Candidate{
		{ItemIDs: []int64{1, 10, 20, 30}, Confidence: 0.7},
		{ItemIDs: []int64{2, 10, 20, 30}, Confidence: 0.75},
	}

	best, _ := s.selector.Select(s.idx, candidates, s.intent, nil, history, nil)

	// Two exact repeats cost 0.30 plus full overlap penalty; the fresh
	// lineup overtakes despite lower generator confidence
	require.NotNil(s.T(), best)
	s.Equal("1-10-20-30", best.Signature)
}

func (s *SelectorSuite) TestSelect_GoodScenarios_NegativeFeedbackDemotes() {
	feedback := []models.FeedbackEntry{
		{Signature: "2-10-20-30", ItemIDs: []int64{2, 10, 20, 30}, Feedback: -1},
	}
	candidates := []Candidate{
		{ItemIDs: []int64{1, 10, 20, 30}, Confidence: 0.7},
		{ItemIDs: []int64{2, 10, 20, 30}, Confidence: 0.75},
	}

	best, _ := s.selector.Select(s.idx, candidates, s.intent, nil, nil, feedback)

	require.NotNil(s.T(), best)
	s.Equal("1-10-20-30", best.Signature)
}

func (s *SelectorSuite) TestSelect_GoodScenarios_StyleDirectiveMismatchPenalized() {
	intent := s.intent
	intent.Style = []string{"minimal"}
	candidates := []Candidate{
		// all-minimal except outerwear/footwear
		{ItemIDs: []int64{2, 10, 20, 30}, Confidence: 0.5},
		// three misses
		{ItemIDs: []int64{1, 11, 20, 30}, Confidence: 0.55},
	}

	best, _ := s.selector.Select(s.idx, candidates, intent, nil, nil, nil)

	require.NotNil(s.T(), best)
	s.Equal("2-10-20-30", best.Signature)
}

// =============================================================================
// VALIDATION
// =============================================================================

func (s *SelectorSuite) TestSelect_Validation_DiscardsInvalidCandidates() {
	candidates := []Candidate{
		{ItemIDs: []int64{1, 10, 20, 40}, Confidence: 0.99}, // hot shorts fail cold intent (and duplicate bottom)
		{ItemIDs: []int64{1, 10, 20}, Confidence: 0.99},     // missing footwear
		{ItemIDs: []int64{1, 10, 20, 999}, Confidence: 0.9}, // unknown id
		{ItemIDs: []int64{1, 10, 20, 30}, Confidence: 0.1},  // the only valid one
	}

	best, results := s.selector.Select(s.idx, candidates, s.intent, nil, nil, nil)

	require.NotNil(s.T(), best)
	require.Len(s.T(), results, 1)
	s.Equal("1-10-20-30", best.Signature)
}

func (s *SelectorSuite) TestSelect_Validation_StrictAnchorRequired() {
	anchor := &models.Anchor{ItemID: 2, Mode: models.AnchorStrict}
	candidates := []Candidate{
		{ItemIDs: []int64{1, 10, 20, 30}, Confidence: 0.9}, // anchor absent
	}

	best, results := s.selector.Select(s.idx, candidates, s.intent, anchor, nil, nil)

	// Candidate discarded; fallback engages and honors the anchor
	require.NotNil(s.T(), best)
	require.Len(s.T(), results, 1)
	s.True(results[0].Fallback)
	s.Equal(int64(2), best.Categories[models.CategoryOuterwear])
}

// =============================================================================
// FALLBACK
// =============================================================================

func (s *SelectorSuite) TestSelect_Fallback_WhenAllCandidatesInvalid() {
	candidates := []Candidate{
		{ItemIDs: []int64{999}, Confidence: 0.9},
	}

	best, results := s.selector.Select(s.idx, candidates, s.intent, nil, nil, nil)

	require.NotNil(s.T(), best)
	require.Len(s.T(), results, 1)
	s.True(results[0].Fallback)
	s.Len(best.ItemIDs, 4)
}

func (s *SelectorSuite) TestSelect_Fallback_NilWhenCatalogCannotCover() {
	idx := catalog.NewIndex([]models.Item{
		{ID: 10, Type: "shirt", Weather: []string{"cold"}},
	})

	best, results := s.selector.Select(idx, nil, s.intent, nil, nil, nil)

	s.Nil(best)
	s.Nil(results)
}

func (s *SelectorSuite) TestSelect_Fallback_Deterministic() {
	first, _ := s.selector.Select(s.idx, nil, s.intent, nil, nil, nil)
	second, _ := s.selector.Select(s.idx, nil, s.intent, nil, nil, nil)

	require.NotNil(s.T(), first)
	require.NotNil(s.T(), second)
	s.Equal(first.Signature, second.Signature)
}
