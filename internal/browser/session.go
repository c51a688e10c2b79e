// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// ErrUnavailable is returned when no browser executable can be found.
var ErrUnavailable = errors.New("browser: no Chrome executable available")

// Session owns one browser tab driven through chromedp.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	cfg         config.BrowserConfig
	logger      *zap.Logger

	closeOnce sync.Once
}

// allocatorOptions translates the browser config into chromedp allocator options.
func allocatorOptions(cfg config.BrowserConfig, execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Sandboxing fails with "Permission denied" on hardened hosts and in containers.
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	for _, arg := range cfg.Args {
		key, value, hasValue := strings.Cut(arg, "=")
		key = strings.TrimPrefix(key, "--")
		if !hasValue {
			opts = append(opts, chromedp.Flag(key, true))
			continue
		}
		opts = append(opts, chromedp.Flag(key, value))
	}
	return opts
}

// NewSession launches a browser, opens a tab and, if cfg.URL is set, navigates to it.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	execPath := FindExecPath(cfg.ExecPath)
	if execPath == "" {
		return nil, ErrUnavailable
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(cfg, execPath)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Warnf),
	)

	s := &Session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		cfg:         cfg,
		logger:      logger.Named("browser"),
	}

	// The first Run starts the browser and must see the tab context itself;
	// a derived context would tie the browser's lifetime to it.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: failed to start %s: %w", execPath, err)
	}
	if cfg.URL != "" {
		if err := s.Navigate(ctx, cfg.URL); err != nil {
			s.Close()
			return nil, err
		}
	}
	s.logger.Debug("Browser session started.", zap.String("exec_path", execPath), zap.Bool("headless", cfg.Headless))
	return s, nil
}

// Navigate loads url and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	if err := s.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Run executes actions on the session tab, canceled by either ctx or Close.
// No timeout is applied.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	return s.run(ctx, actions...)
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	opCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// Element returns a sink typing into target. See ElementSink for accepted targets.
func (s *Session) Element(target any) (*ElementSink, error) {
	sel, opts, err := resolveTarget(target)
	if err != nil {
		return nil, err
	}
	return &ElementSink{session: s, sel: sel, opts: opts}, nil
}

// Binder exposes the session as the element capability of a Humanoid.
func Binder(s *Session) humanoid.ElementBinder {
	return func(target any) (humanoid.Sink, error) {
		sink, err := s.Element(target)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
}

// Close shuts down the tab and the browser process.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
		s.logger.Debug("Browser session closed.")
	})
}
