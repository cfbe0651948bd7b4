package repository

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"dailymate/internal/model"
)

const taskTable = "tasks"

// Order fragments shared by the task list queries.
const (
	orderOpenFirst    = "is_done ASC"
	orderPriorityDesc = "CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END ASC"
	orderPriorityAsc  = "CASE priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END ASC"
	orderDueMissing   = "due_at IS NULL ASC"
	orderDueNearest   = "due_at ASC"
	orderRecent       = "updated_at DESC"
)

func selectTasks() sq.SelectBuilder {
	return sq.Select("*").From(taskTable)
}

// listTasksQuery builds the filtered and sorted task list query.
func listTasksQuery(filter model.TaskFilter) sq.SelectBuilder {
	q := selectTasks()

	switch filter.Status {
	case model.StatusDone:
		q = q.Where(sq.Eq{"is_done": true})
	case model.StatusNotDone:
		q = q.Where(sq.Eq{"is_done": false})
	}

	if text := strings.TrimSpace(filter.Query); text != "" {
		pattern := "%" + escapeLike(text) + "%"
		q = q.Where(sq.Or{
			sq.Expr(`title LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`description LIKE ? ESCAPE '\'`, pattern),
		})
	}

	switch filter.Sort {
	case model.SortPriorityAsc:
		q = q.OrderBy(orderOpenFirst, orderPriorityAsc, orderDueMissing, orderDueNearest, orderRecent)
	case model.SortDueNearest:
		q = q.OrderBy(orderOpenFirst, orderDueMissing, orderDueNearest, orderPriorityDesc, orderRecent)
	default:
		q = q.OrderBy(orderOpenFirst, orderPriorityDesc, orderDueMissing, orderDueNearest, orderRecent)
	}
	return q
}

func tasksInRangeQuery(start, end time.Time) sq.SelectBuilder {
	return selectTasks().
		Where(sq.NotEq{"due_at": nil}).
		Where(sq.Expr("due_at BETWEEN ? AND ?", start.UTC(), end.UTC())).
		OrderBy(orderOpenFirst, orderPriorityDesc, orderDueNearest)
}

func overdueTasksQuery(now time.Time) sq.SelectBuilder {
	return selectTasks().
		Where(sq.Eq{"is_done": false}).
		Where(sq.NotEq{"due_at": nil}).
		Where(sq.Lt{"due_at": now.UTC()}).
		OrderBy(orderDueNearest)
}

func highPriorityQuery(limit int) sq.SelectBuilder {
	return selectTasks().
		Where(sq.Eq{"is_done": false, "priority": string(model.PriorityHigh)}).
		OrderBy(orderDueMissing, orderDueNearest, orderRecent).
		Limit(uint64(limit))
}

func activeRemindersQuery() sq.SelectBuilder {
	return selectTasks().
		Where(sq.NotEq{"reminder_at": nil}).
		Where(sq.Eq{"is_done": false}).
		OrderBy("reminder_at ASC")
}

func statsQuery() sq.SelectBuilder {
	return sq.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN is_done = 1 THEN 1 ELSE 0 END), 0) AS done",
		"COALESCE(SUM(CASE WHEN is_done = 0 THEN 1 ELSE 0 END), 0) AS not_done",
		"COALESCE(SUM(CASE WHEN is_done = 0 AND priority = 'HIGH' THEN 1 ELSE 0 END), 0) AS high_not_done",
		"COALESCE(SUM(CASE WHEN is_done = 0 AND priority = 'MEDIUM' THEN 1 ELSE 0 END), 0) AS medium_not_done",
		"COALESCE(SUM(CASE WHEN is_done = 0 AND priority = 'LOW' THEN 1 ELSE 0 END), 0) AS low_not_done",
	).From(taskTable)
}

// escapeLike makes s match literally inside a LIKE pattern using '\' as
// the escape character.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
