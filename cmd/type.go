// -- cmd/type.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/browser"
	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/device"
	"github.com/xkilldash9x/humantyper/internal/humanoid"
	"github.com/xkilldash9x/humantyper/internal/observability"
)

// Function variables for dependency injection/mocking in tests.
var (
	appFs             afero.Fs = afero.NewOsFs()
	browserAvailable           = browser.Available
	newBrowserSession          = browser.NewSession
	startPTY                   = device.StartPTY
)

// newTypeCmd creates and configures the `type` command.
func newTypeCmd() *cobra.Command {
	typeCmd := &cobra.Command{
		Use:   "type [text...]",
		Short: "Types text with human pacing and self-corrected typos",
		Long: `Types the given text, the contents of --file, or standard input.

The device sink writes to stdout, a command started on a pseudo-terminal, or an
in-memory buffer. The element sink types into a browser element selected with
--selector after optionally loading --url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if err := applyTypeFlagOverrides(cmd, cfg); err != nil {
				return err
			}

			file, _ := cmd.Flags().GetString("file")
			text, err := readText(cmd, args, file)
			if err != nil {
				return err
			}
			seed, _ := cmd.Flags().GetInt64("seed")
			return runType(ctx, cmd.OutOrStdout(), cfg, text, seed, observability.GetLogger())
		},
	}

	typeCmd.Flags().StringP("file", "f", "", "Read the text to type from this file.")
	typeCmd.Flags().StringP("layout", "l", "", "Keyboard layout family, e.g. 'qwerty' or 'azerty'. (Overrides config/env)")
	typeCmd.Flags().Float64("cpm", 0, "Average speed in characters per minute. (Overrides config/env)")
	typeCmd.Flags().String("sink", "", "Sink kind: 'device' or 'element'. (Overrides config/env)")
	typeCmd.Flags().String("backend", "", "Device backend: 'stdout', 'pty' or 'buffer'. (Overrides config/env)")
	typeCmd.Flags().StringSlice("command", nil, "Command run on a pseudo-terminal by the pty backend. (Overrides config/env)")
	typeCmd.Flags().String("url", "", "Page loaded before typing with the element sink. (Overrides config/env)")
	typeCmd.Flags().String("selector", "", "CSS selector of the element to type into. (Overrides config/env)")
	typeCmd.Flags().Bool("strict", false, "Reject text with characters missing from the layout before typing. (Overrides config/env)")
	typeCmd.Flags().Int64("seed", 0, "Seed for the random source; 0 picks one from the clock.")

	return typeCmd
}

// applyTypeFlagOverrides copies explicitly set flags into cfg and re-validates it.
func applyTypeFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("layout") {
		v, _ := flags.GetString("layout")
		cfg.SetTypingLayout(v)
	}
	if flags.Changed("cpm") {
		v, _ := flags.GetFloat64("cpm")
		cfg.SetTypingAverageCPM(v)
	}
	if flags.Changed("sink") {
		v, _ := flags.GetString("sink")
		cfg.SetTypingSink(humanoid.SinkKind(v))
	}
	if flags.Changed("strict") {
		v, _ := flags.GetBool("strict")
		cfg.SetTypingStrict(v)
	}
	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		cfg.SetDeviceBackend(v)
	}
	if flags.Changed("command") {
		v, _ := flags.GetStringSlice("command")
		cfg.DeviceCfg.Command = v
	}
	if flags.Changed("url") {
		v, _ := flags.GetString("url")
		cfg.SetBrowserURL(v)
	}
	if flags.Changed("selector") {
		v, _ := flags.GetString("selector")
		cfg.SetBrowserSelector(v)
	}
	return cfg.Validate()
}

// readText takes the text from --file, the arguments, or stdin, in that order.
// A single trailing newline is dropped.
func readText(cmd *cobra.Command, args []string, file string) (string, error) {
	var text string
	switch {
	case file != "":
		data, err := afero.ReadFile(appFs, file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		text = string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	if text == "" {
		return "", errors.New("nothing to type")
	}
	return text, nil
}

func runType(ctx context.Context, out io.Writer, cfg *config.Config, text string, seed int64, logger *zap.Logger) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []humanoid.Option{humanoid.WithRand(rand.New(rand.NewSource(seed)))}

	typing := cfg.Typing()
	sinkKind, _ := humanoid.NormalizeSinkKind(string(typing.Sink))
	if sinkKind == humanoid.SinkElement {
		return typeIntoElement(ctx, cfg, text, logger, opts)
	}
	return typeToDevice(ctx, out, cfg, text, logger, opts)
}

func typeToDevice(ctx context.Context, out io.Writer, cfg *config.Config, text string, logger *zap.Logger, opts []humanoid.Option) error {
	devCfg := cfg.Device()

	var sink humanoid.Sink
	var buffer *device.Buffer
	switch strings.ToLower(devCfg.Backend) {
	case device.BackendBuffer:
		buffer = device.NewBuffer()
		sink = buffer
	case device.BackendPTY:
		pty, err := startPTY(ctx, logger, out, devCfg.Command[0], devCfg.Command[1:]...)
		if err != nil {
			return err
		}
		defer func() {
			if err := pty.Close(); err != nil {
				logger.Warn("Failed to close pty device.", zap.Error(err))
			}
		}()
		sink = pty
	default:
		sink = device.NewWriter(out, devCfg.Backspace)
	}

	h, err := humanoid.New(cfg.Typing(), logger, append(opts, humanoid.WithDevice(sink))...)
	if err != nil {
		return err
	}
	if err := h.TypeToDevice(ctx, text); err != nil {
		return err
	}

	switch {
	case buffer != nil:
		fmt.Fprintln(out, buffer.Text())
		logger.Info("Typing complete.",
			zap.Int("keystrokes", len(buffer.Actions())),
			zap.Int("corrections", buffer.Backspaces()),
		)
	case strings.ToLower(devCfg.Backend) == device.BackendStdout && !strings.HasSuffix(text, "\n"):
		fmt.Fprintln(out)
	}
	return nil
}

func typeIntoElement(ctx context.Context, cfg *config.Config, text string, logger *zap.Logger, opts []humanoid.Option) error {
	bcfg := cfg.Browser()
	if bcfg.Selector == "" {
		return errors.New("the element sink needs --selector")
	}

	// Without a browser the binder stays nil and humanoid.New reports the
	// missing capability.
	var binder humanoid.ElementBinder
	if browserAvailable(bcfg.ExecPath) {
		sess, err := newBrowserSession(ctx, bcfg, logger)
		if err != nil {
			return err
		}
		defer sess.Close()
		binder = browser.Binder(sess)
	}

	h, err := humanoid.New(cfg.Typing(), logger, append(opts, humanoid.WithElementBinder(binder))...)
	if err != nil {
		return err
	}
	if err := h.TypeInto(ctx, text, bcfg.Selector); err != nil {
		return err
	}
	logger.Info("Typed into element.", zap.String("selector", bcfg.Selector), zap.String("url", bcfg.URL))
	return nil
}
