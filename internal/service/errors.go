package service

import "errors"

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidRepeat    = errors.New("invalid repeat rule")
	ErrInvalidRange     = errors.New("range end is before start")
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSubtaskNotFound  = errors.New("subtask not found")
)
