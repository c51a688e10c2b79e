// internal/device/device.go
package device

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// ErrUnsupportedKey is returned for named keys a device cannot produce.
var ErrUnsupportedKey = errors.New("device: unsupported key")

// ErrClosed is returned after a device has been closed.
var ErrClosed = errors.New("device: closed")

// Backend names accepted by the device configuration.
const (
	BackendStdout = "stdout"
	BackendPTY    = "pty"
	BackendBuffer = "buffer"
)

// KeyMap maps named keys to the bytes written for them.
type KeyMap map[humanoid.Key]string

func (m KeyMap) sequence(key humanoid.Key) (string, error) {
	seq, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKey, key)
	}
	return seq, nil
}

// terminalKeys is what a line discipline expects from a keyboard.
func terminalKeys() KeyMap {
	return KeyMap{
		humanoid.KeyBackspace: "\x7f",
		humanoid.KeyEnter:     "\r",
		humanoid.KeyTab:       "\t",
	}
}
