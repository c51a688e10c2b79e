// internal/device/pty.go
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// PTY runs a command on a pseudo-terminal and types into its master side, so
// the child sees keystrokes exactly as if they came from a keyboard.
type PTY struct {
	mu     sync.Mutex
	ptm    *os.File
	cmd    *exec.Cmd
	keys   KeyMap
	logger *zap.Logger
	cancel context.CancelFunc
	copied chan struct{}
	closed bool
}

var _ humanoid.Sink = (*PTY)(nil)

// Window size handed to the child.
var defaultWinsize = &pty.Winsize{Rows: 24, Cols: 80}

// StartPTY starts name with args attached to a new pseudo-terminal. Child
// output is copied to output until the terminal closes; output may be nil.
func StartPTY(ctx context.Context, logger *zap.Logger, output io.Writer, name string, args ...string) (*PTY, error) {
	if name == "" {
		return nil, errors.New("device: pty backend needs a command")
	}
	if output == nil {
		output = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cmdCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(cmdCtx, name, args...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptm, err := pty.StartWithSize(cmd, defaultWinsize)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("device: failed to start %q on a pty: %w", name, err)
	}

	d := &PTY{
		ptm:    ptm,
		cmd:    cmd,
		keys:   terminalKeys(),
		logger: logger.Named("pty").With(zap.String("command", name), zap.Int("pid", cmd.Process.Pid)),
		cancel: cancel,
		copied: make(chan struct{}),
	}
	go d.copyOutput(output)

	d.logger.Debug("PTY device started.")
	return d, nil
}

// copyOutput drains the master side. It returns once the pty is closed.
func (d *PTY) copyOutput(output io.Writer) {
	defer close(d.copied)
	if _, err := io.Copy(output, d.ptm); err != nil && !isClosedPTY(err) {
		d.logger.Debug("PTY output copy stopped.", zap.Error(err))
	}
}

// Reading the master of a pty whose child has exited yields EIO on Linux.
func isClosedPTY(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}

// EmitText writes text to the master side, where the child reads it as input.
func (d *PTY) EmitText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.write(text)
}

// EmitKey writes the terminal sequence of key, DEL for Backspace.
func (d *PTY) EmitKey(ctx context.Context, key humanoid.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq, err := d.keys.sequence(key)
	if err != nil {
		return err
	}
	return d.write(seq)
}

func (d *PTY) write(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if _, err := d.ptm.WriteString(s); err != nil {
		return fmt.Errorf("device: pty write failed: %w", err)
	}
	return nil
}

// Close stops the child, releases the terminal and waits for the output copier.
func (d *PTY) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	// Wait reports the kill from cancel; that is the expected outcome here.
	_ = d.cmd.Wait()

	err := d.ptm.Close()
	<-d.copied
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("device: failed to close pty: %w", err)
	}
	d.logger.Debug("PTY device closed.")
	return nil
}
