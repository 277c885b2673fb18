package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove          = errors.New("illegal move")
	ErrNoLegalMove          = errors.New("no legal move")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IllegalMoveError reports a move that targets an occupied or off-board cell,
// or that captures nothing.
type IllegalMoveError struct {
	Move   Move
	Color  Color
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s for %s: %s", e.Move, e.Color, e.Reason)
}

func (e *IllegalMoveError) Is(target error) bool {
	return target == ErrIllegalMove
}

type InvalidConfigurationError struct {
	Field string
	Value any
}

func NewInvalidConfigurationError(field string, value any) error {
	return &InvalidConfigurationError{Field: field, Value: value}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v", e.Field, e.Value)
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
