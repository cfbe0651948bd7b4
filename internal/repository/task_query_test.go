package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailymate/internal/model"
)

func TestListTasksQuery(t *testing.T) {
	t.Run("all without search", func(t *testing.T) {
		sql, args, err := listTasksQuery(model.TaskFilter{Status: model.StatusAll, Sort: model.SortPriorityDesc}).ToSql()
		require.NoError(t, err)
		assert.NotContains(t, sql, "WHERE")
		assert.Empty(t, args)
		assert.Contains(t, sql, "ORDER BY "+orderOpenFirst+", "+orderPriorityDesc+", "+orderDueMissing)
	})

	t.Run("not done with search", func(t *testing.T) {
		sql, args, err := listTasksQuery(model.TaskFilter{Status: model.StatusNotDone, Sort: model.SortDueNearest, Query: " 50%_off "}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "is_done = ?")
		assert.Contains(t, sql, "title LIKE ?")
		assert.Contains(t, sql, "description LIKE ?")
		assert.Equal(t, []any{false, `%50\%\_off%`, `%50\%\_off%`}, args)
		assert.Contains(t, sql, "ORDER BY "+orderOpenFirst+", "+orderDueMissing+", "+orderDueNearest+", "+orderPriorityDesc)
	})

	t.Run("unknown sort falls back to priority descending", func(t *testing.T) {
		sql, _, err := listTasksQuery(model.TaskFilter{Sort: "bogus"}).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, orderPriorityDesc)
	})
}

func TestTimeQueriesUseUTC(t *testing.T) {
	zone := time.FixedZone("UTC-3", -3*60*60)
	start := time.Date(2026, 10, 17, 6, 0, 0, 0, zone)

	_, args, err := tasksInRangeQuery(start, start.Add(time.Hour)).ToSql()
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, time.UTC, args[0].(time.Time).Location())

	_, args, err = overdueTasksQuery(start).ToSql()
	require.NoError(t, err)
	assert.Equal(t, []any{false, start.UTC()}, args)
}

func TestHighPriorityQueryLimit(t *testing.T) {
	sql, args, err := highPriorityQuery(5).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 5")
	assert.Equal(t, []any{false, "HIGH"}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
