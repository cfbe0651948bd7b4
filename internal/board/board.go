// Package board composes the reactive state shown by a task list front end.
//
// Inputs (status filter, sort order, search text) live in a state cell.
// Every change re-subscribes the task list query for the new inputs, so
// subscribers only ever see results for the latest inputs. Each output
// stream suppresses consecutive identical snapshots.
package board

import (
	"context"

	"dailymate/internal/live"
	"dailymate/internal/model"
	"dailymate/internal/service"
)

// Board holds list inputs and exposes derived live state.
type Board struct {
	tasks             *service.TaskService
	categories        *service.CategoryService
	filter            *live.Value[model.TaskFilter]
	highPriorityLimit int
}

func New(tasks *service.TaskService, categories *service.CategoryService, highPriorityLimit int) *Board {
	return &Board{
		tasks:             tasks,
		categories:        categories,
		filter:            live.NewValue(model.TaskFilter{}.Normalized()),
		highPriorityLimit: highPriorityLimit,
	}
}

func (b *Board) Filter() model.TaskFilter {
	return b.filter.Get()
}

func (b *Board) SetStatus(status model.Status) {
	b.filter.Update(func(f model.TaskFilter) model.TaskFilter {
		f.Status = status
		return f.Normalized()
	})
}

func (b *Board) SetSort(sort model.SortOrder) {
	b.filter.Update(func(f model.TaskFilter) model.TaskFilter {
		f.Sort = sort
		return f.Normalized()
	})
}

// SetSearch sets the search text. An empty string clears the search.
func (b *Board) SetSearch(query string) {
	b.filter.Update(func(f model.TaskFilter) model.TaskFilter {
		f.Query = query
		return f
	})
}

// Tasks streams the task list for the current inputs.
func (b *Board) Tasks(ctx context.Context) <-chan []model.Task {
	filters := live.Distinct(ctx, b.filter.Watch(ctx))
	rows := live.Switch(ctx, filters, func(inner context.Context, f model.TaskFilter) <-chan []model.Task {
		return b.tasks.ObserveTasks(f).Subscribe(inner)
	})
	return live.Distinct(ctx, rows)
}

func (b *Board) Stats(ctx context.Context) <-chan model.TaskStats {
	return live.Distinct(ctx, b.tasks.ObserveStats().Subscribe(ctx))
}

func (b *Board) HighPriority(ctx context.Context) <-chan []model.Task {
	return live.Distinct(ctx, b.tasks.ObserveHighPriority(b.highPriorityLimit).Subscribe(ctx))
}

func (b *Board) Overdue(ctx context.Context) <-chan []model.Task {
	return live.Distinct(ctx, b.tasks.ObserveOverdue().Subscribe(ctx))
}

func (b *Board) Categories(ctx context.Context) <-chan []model.Category {
	return live.Distinct(ctx, b.categories.Observe().Subscribe(ctx))
}
