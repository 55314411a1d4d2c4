package task

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrParentNotFound     = errors.New("parent task not found")
	ErrDefinitionNotFound = errors.New("recurring definition not found")
	ErrNestedRecurrence   = errors.New("only top-level tasks can recur")
	ErrInstanceRecurrence = errors.New("recurring instances follow their definition's pattern")
	ErrInvalidState       = errors.New("invalid task state")
)
