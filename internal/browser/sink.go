// internal/browser/sink.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// ErrUnsupportedTarget is returned for element handles the sink cannot address.
var ErrUnsupportedTarget = errors.New("browser: unsupported element target")

// keyMap translates named keys into the runes chromedp dispatches as key events.
var keyMap = map[humanoid.Key]string{
	humanoid.KeyBackspace: kb.Backspace,
	humanoid.KeyEnter:     kb.Enter,
	humanoid.KeyTab:       kb.Tab,
}

// ElementSink types into one element of a Session. The target is a CSS
// selector string, a *cdp.Node or a cdp.NodeID.
type ElementSink struct {
	session *Session
	sel     interface{}
	opts    []chromedp.QueryOption
}

var _ humanoid.Sink = (*ElementSink)(nil)

func resolveTarget(target any) (interface{}, []chromedp.QueryOption, error) {
	switch t := target.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil, fmt.Errorf("%w: empty selector", ErrUnsupportedTarget)
		}
		return t, []chromedp.QueryOption{chromedp.ByQuery}, nil
	case *cdp.Node:
		if t == nil {
			return nil, nil, fmt.Errorf("%w: nil node", ErrUnsupportedTarget)
		}
		return []cdp.NodeID{t.NodeID}, []chromedp.QueryOption{chromedp.ByNodeID}, nil
	case cdp.NodeID:
		return []cdp.NodeID{t}, []chromedp.QueryOption{chromedp.ByNodeID}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}

func (e *ElementSink) EmitText(ctx context.Context, text string) error {
	if err := e.session.run(ctx, chromedp.SendKeys(e.sel, text, e.opts...)); err != nil {
		return fmt.Errorf("browser: failed to send %q: %w", text, err)
	}
	return nil
}

func (e *ElementSink) EmitKey(ctx context.Context, key humanoid.Key) error {
	seq, ok := keyMap[key]
	if !ok {
		return fmt.Errorf("browser: unsupported key %s", key)
	}
	if err := e.session.run(ctx, chromedp.SendKeys(e.sel, seq, e.opts...)); err != nil {
		return fmt.Errorf("browser: failed to send %s: %w", key, err)
	}
	return nil
}
