package composer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/thebtf/lookbook/internal/catalog"
	"github.com/thebtf/lookbook/internal/constraint"
	"github.com/thebtf/lookbook/internal/scoring"
	"github.com/thebtf/lookbook/pkg/models"
)

// AssignerSuite is a test suite for slot assignment.
type AssignerSuite struct {
	suite.Suite
	assigner *Assigner
	eval     *constraint.Evaluator
}

func (s *AssignerSuite) SetupTest() {
	s.assigner = NewAssigner(scoring.NewScorer(nil))
	s.eval = constraint.NewEvaluator(nil)
}

func TestAssignerSuite(t *testing.T) {
	suite.Run(t, new(AssignerSuite))
}

// testCatalog returns a small catalog covering all required categories.
func testCatalog() []models.Item {
	return []models.Item{
		{ID: 1, Type: "rain jacket", Weather: []string{"cold"}},
		{ID: 2, Type: "wool coat", Weather: []string{"cold"}},
		{ID: 10, Type: "oxford shirt", Weather: []string{"all season"}},
		{ID: 11, Type: "merino sweater", Weather: []string{"cold"}},
		{ID: 20, Type: "chinos", Weather: []string{"all season"}},
		{ID: 21, Type: "jeans", Weather: []string{"all season"}},
		{ID: 30, Type: "chelsea boots", Weather: []string{"cold"}},
		{ID: 31, Type: "derby shoes", Weather: []string{"all season"}},
	}
}

func (s *AssignerSuite) pool(intent models.CanonicalIntent, items []models.Item) Pool {
	return BuildPool(catalog.NewIndex(items), s.eval, intent, constraint.StrictEnvelope())
}

// =============================================================================
// GOOD SCENARIOS - Expected normal operations
// =============================================================================

func (s *AssignerSuite) TestAssign_GoodScenarios_CompleteLineup() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())

	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), nil, nil)

	require.True(s.T(), outcome.OK())
	s.Len(outcome.Lineup.ItemIDs, 4)
	s.Len(outcome.Lineup.Categories, 4)
	for _, c := range models.RequiredCategories {
		s.Contains(outcome.Lineup.Categories, c)
	}
	s.NotEmpty(outcome.Lineup.Signature)
}

func (s *AssignerSuite) TestAssign_GoodScenarios_Deterministic() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())
	locks := models.NewLocks()

	first := s.assigner.Assign(pool, intent, locks, nil, nil)
	second := s.assigner.Assign(pool, intent, locks, nil, nil)

	require.True(s.T(), first.OK())
	require.True(s.T(), second.OK())
	s.Equal(first.Lineup.Signature, second.Lineup.Signature)
	s.Equal(first.Lineup.ItemIDs, second.Lineup.ItemIDs)
}

func (s *AssignerSuite) TestAssign_GoodScenarios_TiesBreakByAscendingID() {
	// Two identical outerwear items: the lower id must win
	items := []models.Item{
		{ID: 9, Type: "coat", Weather: []string{"cold"}},
		{ID: 2, Type: "coat", Weather: []string{"cold"}},
		{ID: 10, Type: "tee", Weather: []string{"cold"}},
		{ID: 20, Type: "jeans", Weather: []string{"cold"}},
		{ID: 30, Type: "boots", Weather: []string{"cold"}},
	}
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, items)

	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), nil, nil)

	require.True(s.T(), outcome.OK())
	s.Equal(int64(2), outcome.Lineup.Categories[models.CategoryOuterwear])
}

func (s *AssignerSuite) TestAssign_GoodScenarios_HigherScoreWins() {
	// Item 2 matches the intent weather tag directly, item 1 only via
	// the all-season alias; the direct match scores the weather term
	// for both, so add a favorite to break it upward.
	items := testCatalog()
	items[1].Favorite = true // wool coat, ID 2
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, items)

	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), nil, nil)

	require.True(s.T(), outcome.OK())
	s.Equal(int64(2), outcome.Lineup.Categories[models.CategoryOuterwear])
}

// =============================================================================
// LOCKS AND ANCHORS
// =============================================================================

func (s *AssignerSuite) TestAssign_LockPinsItem() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())
	locks := models.NewLocks()
	locks.Set(models.CategoryOuterwear, 1)

	outcome := s.assigner.Assign(pool, intent, locks, nil, nil)

	require.True(s.T(), outcome.OK())
	s.Equal(int64(1), outcome.Lineup.Categories[models.CategoryOuterwear])
}

func (s *AssignerSuite) TestAssign_LockedItemNotEligibleFails() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())
	locks := models.NewLocks()
	locks.Set(models.CategoryOuterwear, 999)

	outcome := s.assigner.Assign(pool, intent, locks, nil, nil)

	s.False(outcome.OK())
	s.Contains(outcome.Missing, models.CategoryOuterwear)
}

func (s *AssignerSuite) TestAssign_StrictAnchorPins() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())
	anchor := &models.Anchor{ItemID: 21, Mode: models.AnchorStrict} // jeans

	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), anchor, nil)

	require.True(s.T(), outcome.OK())
	s.Equal(int64(21), outcome.Lineup.Categories[models.CategoryBottom])
}

func (s *AssignerSuite) TestAssign_StrictAnchorNotEligibleViolates() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())
	anchor := &models.Anchor{ItemID: 999, Mode: models.AnchorStrict}

	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), anchor, nil)

	s.False(outcome.OK())
	s.True(outcome.AnchorViolated)
}

func (s *AssignerSuite) TestAssign_SoftAnchorOnlyBiases() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())

	// Soft anchor on jeans (21): its bonus should flip the bottom slot
	anchor := &models.Anchor{ItemID: 21, Mode: models.AnchorSoft}
	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), anchor, nil)
	require.True(s.T(), outcome.OK())
	s.Equal(int64(21), outcome.Lineup.Categories[models.CategoryBottom])

	// A soft anchor that is not eligible is simply ignored
	anchor = &models.Anchor{ItemID: 999, Mode: models.AnchorSoft}
	outcome = s.assigner.Assign(pool, intent, models.NewLocks(), anchor, nil)
	s.True(outcome.OK())
}

// =============================================================================
// BAD SCENARIOS - Structural failure
// =============================================================================

func (s *AssignerSuite) TestAssign_BadScenarios_EmptyCategoryFailsWhole() {
	// No footwear passes the cold filter once boots are excluded
	items := testCatalog()[:6] // drop both footwear items
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, items)

	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), nil, nil)

	s.False(outcome.OK())
	s.Contains(outcome.Missing, models.CategoryFootwear)
	s.Nil(outcome.Lineup)
}

func (s *AssignerSuite) TestAssign_BadScenarios_ExcludedIDsSkipped() {
	intent := models.CanonicalIntent{Weather: []string{"cold"}}
	pool := s.pool(intent, testCatalog())

	exclude := map[int64]bool{30: true, 31: true}
	outcome := s.assigner.Assign(pool, intent, models.NewLocks(), nil, exclude)

	s.False(outcome.OK())
	s.Contains(outcome.Missing, models.CategoryFootwear)
}
