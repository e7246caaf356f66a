package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrInvalidParent = fmt.Errorf("%w: parent task not found", ErrValidation)
	ErrTaskNotFound  = errors.New("task not found")
	ErrLogNotFound   = errors.New("log entry not found")
	ErrCascadeFailed = errors.New("cascade delete failed")
)
