package syncx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomfit/roomfit/internal/db"
)

func TestEventRepoAppendAndSince(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(ctx, db.DriverSQLite, "file:eventlog_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer d.Close()

	repo := NewEventRepo(d)
	for _, key := range []string{"u1", "u2"} {
		e, err := NewEvent(TypeAnswersSubmitted, key, map[string]string{"sleep_type": "early_bird"})
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, e))
	}

	got, err := repo.Since(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "u1", got[0].Key)
	assert.Equal(t, "local", got[0].SiteID)
	assert.JSONEq(t, `{"sleep_type":"early_bird"}`, got[0].DataJSON)

	rest, err := repo.Since(ctx, got[0].Seq, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "u2", rest[0].Key)
}
