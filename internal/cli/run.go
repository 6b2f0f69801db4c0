package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heuermh/osc-looper/internal/config"
	"github.com/heuermh/osc-looper/internal/console"
	"github.com/heuermh/osc-looper/internal/logging"
	"github.com/heuermh/osc-looper/internal/looper"
	"github.com/heuermh/osc-looper/internal/midi"
	"github.com/heuermh/osc-looper/internal/transport"
)

var (
	runConfigPath string
	runInput      string
	runOutputs    []string
	runTarget     string
	runLogLevel   string
	runSysEx      bool
	runNoConsole  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a looper session",
	Long: `Starts a looper session recording from a MIDI input.

Keys: r starts or finishes a recording, o overdubs a new loop on top of the
current one, u undoes the top loop, y redoes it, s prints every loop, q or
Ctrl-C quits. With --no-console (or when stdin is not a terminal) the same
commands are read one per line from stdin, by letter or by name.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runConfigPath, "config", "c", config.DefaultPath, "config file")
	cmd.Flags().StringVarP(&runInput, "input", "i", "", "MIDI input port name or prefix (default: first port)")
	cmd.Flags().StringArrayVarP(&runOutputs, "output", "o", nil, "MIDI output port name or prefix (repeatable)")
	cmd.Flags().StringVarP(&runTarget, "target", "t", "", "send target: default, single or list")
	cmd.Flags().StringVar(&runLogLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&runSysEx, "sysex", false, "also record system exclusive messages")
	cmd.Flags().BoolVar(&runNoConsole, "no-console", false, "read commands line by line instead of raw keys")
}

// resolveConfig loads the config file and environment, then applies the
// flags set on cmd.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.ReadConfig(runConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.MIDI.Input = runInput
	}
	if flags.Changed("output") {
		cfg.MIDI.Outputs = runOutputs
		if !flags.Changed("target") && cfg.MIDI.Target == transport.ModeDefault {
			cfg.MIDI.Target = transport.ModeList
			if len(runOutputs) == 1 {
				cfg.MIDI.Target = transport.ModeSingle
			}
		}
	}
	if flags.Changed("target") {
		mode, err := transport.ParseMode(runTarget)
		if err != nil {
			return nil, config.ValidationError{Field: "target", Message: err.Error()}
		}
		cfg.MIDI.Target = mode
	}
	if flags.Changed("sysex") {
		cfg.MIDI.SysEx = runSysEx
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = runLogLevel
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logging.SetLevel(level)
	log := logging.Default()

	driver, err := openDriver()
	if err != nil {
		return fmt.Errorf("failed to open MIDI driver: %w", err)
	}
	ports := midi.NewPorts(driver)
	defer func() {
		if err := ports.Close(); err != nil {
			log.Warn("failed to close MIDI ports", "error", err)
		}
	}()

	target := cfg.Target()
	sink, err := transport.NewSink(target, ports)
	if err != nil {
		return fmt.Errorf("failed to open outputs for target %s: %w", target, err)
	}

	session, err := looper.NewSession(looper.SessionOptions{
		Sink:   transport.Serialize(sink),
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	in, err := ports.FindInput(cfg.MIDI.Input)
	if err != nil {
		return err
	}
	stop, err := midi.Listen(in, session, midi.ListenOptions{SysEx: cfg.MIDI.SysEx, Logger: log})
	if err != nil {
		return err
	}
	defer stop()
	log.Info("session started", "input", in.String(), "target", target)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return runConsole(ctx, session, cmd.InOrStdin(), cmd.OutOrStdout(), log)
}

// runConsole feeds commands to session until the user quits, input ends or
// ctx is cancelled.
func runConsole(ctx context.Context, session console.Session, in io.Reader, out io.Writer, log *logging.Logger) error {
	term := console.NewTerminal()
	raw := !runNoConsole && in == os.Stdin && term.IsTerminal()
	if raw {
		if err := term.EnterRaw(); err != nil {
			return err
		}
		defer func() {
			if err := term.ExitRaw(); err != nil {
				log.Warn("failed to restore terminal", "error", err)
			}
		}()
	}

	c := console.New(session, out, console.Options{Raw: raw, Color: raw, Logger: log})
	c.Help()

	done := make(chan error, 1)
	go func() {
		if raw {
			done <- c.RunKeys(console.NewKeyReader(term))
			return
		}
		done <- c.RunLines(in)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}
