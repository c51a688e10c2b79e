// internal/keyboard/families.go
package keyboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFamily is returned by Lookup for names that were never registered.
var ErrUnknownFamily = errors.New("keyboard: unknown layout family")

// Built-in family names.
const (
	QWERTY = "qwerty"
	AZERTY = "azerty"
)

// Family groups the shift levels of one physical keyboard standard.
// Levels are ordered by lookup priority (unshifted first).
type Family struct {
	Name   string
	Levels []*Layout
}

// Find returns the first shift level that has a key for r.
func (f *Family) Find(r rune) (*Layout, error) {
	for _, level := range f.Levels {
		if level.Contains(r) {
			return level, nil
		}
	}
	return nil, &LookupError{Char: r}
}

// Contains reports whether any shift level has a key for r.
func (f *Family) Contains(r rune) bool {
	_, err := f.Find(r)
	return err == nil
}

// Builder constructs the shift levels of a family.
type Builder func() ([]*Layout, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Builder{
		QWERTY: GridBuilder(qwertyLower, qwertyUpper),
		AZERTY: GridBuilder(azertyLower, azertyUpper, azertyAlt),
	}
)

// Register adds or replaces a layout family.
func Register(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = b
}

// Unregister removes a layout family. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, strings.ToLower(name))
}

// Has reports whether name is registered, without building the family.
func Has(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names lists the registered family names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup builds a fresh copy of the named family.
func Lookup(name string) (*Family, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	b, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	levels, err := b()
	if err != nil {
		return nil, fmt.Errorf("keyboard: failed to build family %q: %w", key, err)
	}
	return &Family{Name: key, Levels: levels}, nil
}

// GridBuilder builds one shift level per grid, in priority order.
func GridBuilder(grids ...string) Builder {
	return func() ([]*Layout, error) {
		levels := make([]*Layout, 0, len(grids))
		for _, g := range grids {
			l, err := FromGrid(g)
			if err != nil {
				return nil, err
			}
			levels = append(levels, l)
		}
		return levels, nil
	}
}

var qwertyLower = strings.Join([]string{
	"` 1 2 3 4 5 6 7 8 9 0 - =",
	`q w e r t y u i o p [ ] \`,
	"a s d f g h j k l ; '",
	"z x c v b n m , . /",
}, "\n")

var qwertyUpper = strings.Join([]string{
	"~ ! @ # $ % ^ & * ( ) _ +",
	"Q W E R T Y U I O P { } |",
	`A S D F G H J K L : "`,
	"Z X C V B N M < > ?",
}, "\n")

var azertyLower = strings.Join([]string{
	`² & é " ' ( - è _ ç à ) =`,
	"a z e r t y u i o p ^ $",
	"q s d f g h j k l m ù *",
	"w x c v b n , ; : !",
}, "\n")

var azertyUpper = strings.Join([]string{
	"1 2 3 4 5 6 7 8 9 0 ° +",
	"A Z E R T Y U I O P ¨ £",
	"Q S D F G H J K L M % µ",
	"W X C V B N ? . / §",
}, "\n")

// The second row sits ¤ on an odd column, so only € is read from it.
var azertyAlt = strings.Join([]string{
	"~ # { [ | ` \\ ^ @ ] }",
	"€                  ¤",
}, "\n")
