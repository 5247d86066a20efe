package entity

import "errors"

var (
	ErrLaunch          = errors.New("browser launch failed")
	ErrNoSession       = errors.New("no active browser session")
	ErrElementNotFound = errors.New("element not found")
	ErrTimeout         = errors.New("operation timed out")
	ErrNavigation      = errors.New("navigation failed")
	ErrScript          = errors.New("script evaluation failed")
)
