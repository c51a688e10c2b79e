// internal/device/writer.go
package device

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// Writer echoes keystrokes to an io.Writer such as stdout.
type Writer struct {
	mu   sync.Mutex
	w    io.Writer
	keys KeyMap
}

var _ humanoid.Sink = (*Writer)(nil)

// NewWriter wraps w. An empty backspace uses "\b \b" on terminals so the erased
// character disappears, and a bare "\b" elsewhere.
func NewWriter(w io.Writer, backspace string) *Writer {
	if backspace == "" {
		backspace = "\b"
		if IsTerminal(w) {
			backspace = "\b \b"
		}
	}
	return &Writer{
		w: w,
		keys: KeyMap{
			humanoid.KeyBackspace: backspace,
			humanoid.KeyEnter:     "\n",
			humanoid.KeyTab:       "\t",
		},
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EmitText writes text as is.
func (d *Writer) EmitText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.write(text)
}

// EmitKey writes the byte sequence mapped to key.
func (d *Writer) EmitKey(ctx context.Context, key humanoid.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq, err := d.keys.sequence(key)
	if err != nil {
		return err
	}
	return d.write(seq)
}

func (d *Writer) write(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := io.WriteString(d.w, s); err != nil {
		return fmt.Errorf("device: write failed: %w", err)
	}
	return nil
}
