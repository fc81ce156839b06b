package gorm

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/thebtf/lookbook/internal/history"
	"github.com/thebtf/lookbook/pkg/models"
)

func TestInt64List_RoundTrip(t *testing.T) {
	v, err := Int64List{3, 1, 2}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[3,1,2]", v)

	var l Int64List
	require.NoError(t, l.Scan("[3,1,2]"))
	assert.Equal(t, Int64List{3, 1, 2}, l)

	require.NoError(t, l.Scan([]byte("[7]")))
	assert.Equal(t, Int64List{7}, l)
}

func TestInt64List_NilAndInvalid(t *testing.T) {
	v, err := Int64List(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l Int64List
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))
}

// TestIntegration_HistoryRoundTrip exercises the full store against a
// real PostgreSQL instance. Set LOOKBOOK_POSTGRES_DSN to run it.
func TestIntegration_HistoryRoundTrip(t *testing.T) {
	dsn := os.Getenv("LOOKBOOK_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LOOKBOOK_POSTGRES_DSN not set")
	}

	store, err := NewStore(Config{DSN: dsn, LogLevel: logger.Silent})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	sc := history.Scope{Actor: "integration", Mode: "daily"}

	require.NoError(t, store.RecordLineup(ctx, sc, models.HistoryEntry{
		Signature: "1-2-3",
		ItemIDs:   []int64{1, 2, 3},
		Date:      "2026-08-26",
	}))

	got, err := store.RecentLineups(ctx, sc, 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "1-2-3", got[0].Signature)
	assert.Equal(t, []int64{1, 2, 3}, got[0].ItemIDs)

	require.NoError(t, store.RecordFeedback(ctx, sc, models.FeedbackEntry{
		Signature: "1-2-3",
		ItemIDs:   []int64{1, 2, 3},
		Feedback:  1,
	}))

	fb, err := store.RecentFeedback(ctx, sc, 10)
	require.NoError(t, err)
	require.NotEmpty(t, fb)
	assert.Equal(t, 1, fb[0].Feedback)
}
