package keyboard

import (
	"errors"
	"fmt"
)

// ErrUnknownCharacter matches every LookupError.
var ErrUnknownCharacter = errors.New("keyboard: character not on layout")

// LookupError reports a character that no layout could resolve.
type LookupError struct {
	Char rune
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("keyboard: character %q not on layout", e.Char)
}

// Is lets errors.Is match ErrUnknownCharacter.
func (e *LookupError) Is(target error) bool {
	return target == ErrUnknownCharacter
}
