package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dailymate/internal/model"
	"dailymate/internal/repository"
)

// dueSoonWindow marks open tasks due within this window as upcoming.
const dueSoonWindow = 48 * time.Hour

// ReminderService answers reminder restoration and builds daily summaries.
type ReminderService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewReminderService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *ReminderService {
	return &ReminderService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

// ActiveReminders lists open tasks that still have a reminder, earliest
// first. Callers use it to re-arm notifications after a restart.
func (s *ReminderService) ActiveReminders(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.ListActiveReminders(ctx)
}

// DailySummary renders a plain-text report of open work as of now.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	open, err := s.taskRepo.List(ctx, model.TaskFilter{Status: model.StatusNotDone, Sort: model.SortDueNearest})
	if err != nil {
		return "", err
	}
	stats, err := s.taskRepo.Stats(ctx)
	if err != nil {
		return "", err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return "", err
	}
	catNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	var overdue, upcoming, repeating []model.Task
	for _, task := range open {
		switch {
		case task.IsOverdue(now):
			overdue = append(overdue, task)
		case task.DueAt != nil && task.DueAt.Sub(now) <= dueSoonWindow:
			upcoming = append(upcoming, task)
		}
		if task.Repeat != model.RepeatNone && task.DueAt != nil {
			repeating = append(repeating, task)
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 Daily report\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("✅ %d of %d done, %d open (%d high, %d medium, %d low)\n",
		stats.Done, stats.Total, stats.NotDone, stats.HighNotDone, stats.MediumNotDone, stats.LowNotDone))

	writeSection(&builder, "⚠️ Overdue", overdue, catNames, now)
	writeSection(&builder, "⏳ Due soon", upcoming, catNames, now)

	builder.WriteString("\n♻️ Repeating\n")
	if len(repeating) == 0 {
		builder.WriteString("— none\n")
	}
	for _, task := range repeating {
		next := nextOccurrence(*task.DueAt, task.Repeat, now)
		builder.WriteString(fmt.Sprintf("♻️ %s%s\n   📆 next: %s (%s)\n",
			strings.TrimSpace(task.Title), categorySuffix(task, catNames),
			next.In(now.Location()).Format("2006-01-02"), strings.ToLower(string(task.Repeat))))
	}

	return strings.TrimSpace(builder.String()), nil
}

func writeSection(b *strings.Builder, title string, tasks []model.Task, catNames map[string]string, now time.Time) {
	b.WriteString("\n" + title + "\n")
	if len(tasks) == 0 {
		b.WriteString("— none\n")
		return
	}
	for _, task := range tasks {
		b.WriteString(formatTask(task, catNames, now))
	}
}

func formatTask(task model.Task, catNames map[string]string, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	switch task.Priority {
	case model.PriorityHigh:
		icon = "🔴"
	case model.PriorityMedium:
		icon = "🟡"
	}
	sb.WriteString(fmt.Sprintf("%s %s%s", icon, strings.TrimSpace(task.Title), categorySuffix(task, catNames)))

	if task.DueAt != nil {
		d := task.DueAt.In(now.Location())
		if now.After(d) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, overdue", d.Format("2006-01-02 15:04")))
		} else {
			hoursLeft := int(d.Sub(now).Hours())
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, in ≈%dh", d.Format("2006-01-02 15:04"), hoursLeft))
		}
	}

	if desc := strings.TrimSpace(task.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", desc))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func categorySuffix(task model.Task, catNames map[string]string) string {
	if task.CategoryID == nil {
		return ""
	}
	name := strings.TrimSpace(catNames[*task.CategoryID])
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", name)
}

// nextOccurrence returns the first occurrence of a repeating due time that
// is not before now. Steps are calendar days in now's location, so the wall
// clock time survives DST changes. Monthly repeats keep the original day of
// month, clamped to the month's length.
func nextOccurrence(due time.Time, rule model.RepeatRule, now time.Time) time.Time {
	if !due.Before(now) {
		return due
	}
	due = due.In(now.Location())
	switch rule {
	case model.RepeatDaily, model.RepeatWeekly:
		days := 1
		if rule == model.RepeatWeekly {
			days = 7
		}
		// Estimate from elapsed hours, then walk forward by calendar steps.
		n := int(now.Sub(due).Hours()) / (24 * days)
		if n > 0 {
			n--
		}
		next := due.AddDate(0, 0, n*days)
		for next.Before(now) {
			next = next.AddDate(0, 0, days)
		}
		return next
	case model.RepeatMonthly:
		for i := 1; ; i++ {
			next := addMonthsClamped(due, i)
			if !next.Before(now) {
				return next
			}
		}
	}
	return due
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	first = first.AddDate(0, months, 0)
	if last := daysInMonth(first.Month(), first.Year()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// daysInMonth relies on day 0 normalizing to the last day of the month before.
func daysInMonth(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
