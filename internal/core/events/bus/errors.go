package bus

import "errors"

var (
	ErrNilHandler     = errors.New("event handler is nil")
	ErrEmptyEventType = errors.New("event type is empty")
	ErrNilEvent       = errors.New("event is nil")
)
