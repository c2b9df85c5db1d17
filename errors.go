package chop

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAttribute indicates a name that the model's schema does not define.
	ErrUnknownAttribute = errors.New("chop: unknown attribute")

	// ErrAttributeType indicates a value whose type does not match the attribute.
	ErrAttributeType = errors.New("chop: value type does not match attribute")
)

// AttributeError reports a dynamic write that was rejected.
type AttributeError struct {
	Attr  string
	Value any
	Err   error
}

func (e *AttributeError) Error() string {
	if errors.Is(e.Err, ErrAttributeType) {
		return fmt.Sprintf("chop: attribute %q cannot hold %T", e.Attr, e.Value)
	}
	return fmt.Sprintf("chop: attribute %q: %v", e.Attr, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}
