package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/db/dbtest"
)

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Borrow ")
	require.NoError(t, err)
	assert.Equal(t, ActionBorrow, a)
	assert.Equal(t, 1, a.Sign())

	a, err = ParseAction("return")
	require.NoError(t, err)
	assert.Equal(t, -1, a.Sign())

	_, err = ParseAction("lend")
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestAppendAssignsTimestamp(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	before := time.Now().UTC().Add(-2 * time.Second)
	e, err := s.Append(ctx, "TEST001", "Beaker", ActionBorrow)
	require.NoError(t, err)
	assert.NotZero(t, e.ID)
	assert.Equal(t, "TEST001", e.StudentID)
	assert.Equal(t, "Beaker", e.EquipmentName)
	assert.Equal(t, ActionBorrow, e.Action)
	assert.False(t, e.Timestamp.Before(before.Truncate(time.Second)))
	assert.WithinDuration(t, time.Now().UTC(), e.Timestamp, time.Minute)
}

func TestQueriesAreNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))

	appends := []struct {
		student, name string
		action        Action
	}{
		{"S1", "Beaker", ActionBorrow},
		{"S2", "Funnel", ActionBorrow},
		{"S1", "Funnel", ActionBorrow},
		{"S1", "Beaker", ActionReturn},
	}
	for _, a := range appends {
		_, err := s.Append(ctx, a.student, a.name, a.action)
		require.NoError(t, err)
	}

	got, err := s.QueryByStudent(ctx, "S1", Page{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	// 同一秒内は id の降順
	assert.Equal(t, ActionReturn, got[0].Action)
	assert.Equal(t, "Funnel", got[1].EquipmentName)
	assert.Equal(t, ActionBorrow, got[2].Action)

	all, err := s.QueryAll(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i-1].ID, all[i].ID)
	}

	none, err := s.QueryByStudent(ctx, "NOPE", Page{})
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := s.CountByStudent(ctx, "S1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	n, err = s.CountAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestQueryPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))
	for i := 0; i < 5; i++ {
		_, err := s.Append(ctx, "S1", "Beaker", ActionBorrow)
		require.NoError(t, err)
	}

	page, err := s.QueryAll(ctx, Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.EqualValues(t, 4, page[0].ID)
	assert.EqualValues(t, 3, page[1].ID)

	rest, err := s.QueryAll(ctx, Page{Offset: 3})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
