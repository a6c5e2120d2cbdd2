package preview

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLayerIndex = errors.New("invalid layer index")
	ErrUnknownAction     = errors.New("unknown action")
)

// InvalidLayerIndexError is returned when an action targets a layer past
// the end of the stack. The state is left untouched.
type InvalidLayerIndexError struct {
	Index int
	Len   int
}

func (e *InvalidLayerIndexError) Error() string {
	return fmt.Sprintf("invalid layer index %d: stack has %d layer(s)", e.Index, e.Len)
}

func (e *InvalidLayerIndexError) Is(target error) bool {
	return target == ErrInvalidLayerIndex
}
