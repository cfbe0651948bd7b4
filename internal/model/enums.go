package model

// Priority of a task. Stored as its upper-case name.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// RepeatRule describes how a task recurs.
type RepeatRule string

const (
	RepeatNone    RepeatRule = "NONE"
	RepeatDaily   RepeatRule = "DAILY"
	RepeatWeekly  RepeatRule = "WEEKLY"
	RepeatMonthly RepeatRule = "MONTHLY"
)

func (r RepeatRule) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly:
		return true
	}
	return false
}

// Status selects tasks by completion.
type Status string

const (
	StatusAll     Status = "ALL"
	StatusDone    Status = "DONE"
	StatusNotDone Status = "NOT_DONE"
)

// SortOrder selects one of the task list orderings.
type SortOrder string

const (
	// SortPriorityDesc: open first, HIGH to LOW, nearest due, most recently updated.
	SortPriorityDesc SortOrder = "PRIORITY_DESC"
	// SortPriorityAsc: open first, LOW to HIGH, nearest due, most recently updated.
	SortPriorityAsc SortOrder = "PRIORITY_ASC"
	// SortDueNearest: open first, nearest due, HIGH to LOW, most recently updated.
	SortDueNearest SortOrder = "DUE_NEAREST"
)

// TaskFilter holds the parameters of a task list query.
type TaskFilter struct {
	Status Status
	Sort   SortOrder
	Query  string
}

// TaskStats aggregates task counts.
type TaskStats struct {
	Total         int64
	Done          int64
	NotDone       int64
	HighNotDone   int64
	MediumNotDone int64
	LowNotDone    int64
}

// Normalized fills unset fields with ALL and PRIORITY_DESC.
func (f TaskFilter) Normalized() TaskFilter {
	if f.Status == "" {
		f.Status = StatusAll
	}
	if f.Sort == "" {
		f.Sort = SortPriorityDesc
	}
	return f
}
