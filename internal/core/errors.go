package core

import (
	"errors"
	"fmt"
)

// ErrGridFull is returned when no free cell remains for a particle to freeze on.
var ErrGridFull = errors.New("dla: grid has no free cell left")

// ConfigError reports a parameter outside its accepted range.
type ConfigError struct {
	Field    string
	Value    any
	Expected string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: got %v, expected %s", e.Field, e.Value, e.Expected)
}

// BoundsError reports an index computed outside the grid. It signals broken
// crop or mask arithmetic and is not meant to be recovered from.
type BoundsError struct {
	Op         string
	Start, End int
	Size       int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: range [%d,%d) outside grid of size %d", e.Op, e.Start, e.End, e.Size)
}
