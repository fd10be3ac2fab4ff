package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/rfcache/config"
	"github.com/sarchlab/rfcache/datarecording"
	"github.com/sarchlab/rfcache/monitoring"
	"github.com/sarchlab/rfcache/replay"
	"github.com/sarchlab/rfcache/rfc"
	"github.com/sarchlab/rfcache/sim/hooking"
)

var runCmd = &cobra.Command{
	Use:   "run [trace]",
	Short: "Replay a trace.",
	Long: "`run trace.csv` replays the accesses in trace.csv. " +
		"Without a trace file, or with -, the trace is read from stdin.",
	Args: cobra.MaximumNArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.String("env-file", ".env", "File to load settings from")
	f.Int("slots", 0, "Slots per stream (overrides "+
		config.EnvSlotsPerStream+")")
	f.Int("cores", 0, "Number of cores (overrides "+config.EnvNumCores+")")
	f.Bool("debug", false, "Log every cache event")
	f.Int("monitor-port", 0, "Serve the monitoring API on this port")
	f.String("record", "", "Record events and statistics into this "+
		"SQLite database, without the extension")
	f.Bool("open-browser", false, "Open the monitoring API in a browser")
	f.Uint64("publish-interval", 10000,
		"Number of accesses between two monitoring updates")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()

	envFile, _ := f.GetString("env-file")

	c, err := config.Load(envFile)
	if err != nil {
		return c, err
	}

	if f.Changed("slots") {
		c.SlotsPerStream, _ = f.GetInt("slots")
	}

	if f.Changed("cores") {
		c.NumCores, _ = f.GetInt("cores")
	}

	if f.Changed("debug") {
		c.Debug, _ = f.GetBool("debug")
	}

	if f.Changed("monitor-port") {
		c.MonitorPort, _ = f.GetInt("monitor-port")
	}

	if f.Changed("record") {
		c.RecordPath, _ = f.GetString("record")
	}

	return c, c.Validate()
}

func openTrace(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}

	return file, nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	trace, err := openTrace(args)
	if err != nil {
		return err
	}
	defer trace.Close()

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())

	builder := replay.MakeBuilder().
		WithNumCores(c.NumCores).
		WithSlotsPerStream(c.SlotsPerStream)

	if c.Debug {
		logger.SetLevel(logrus.DebugLevel)
		builder = builder.WithDebugLogger(logger)
	}

	if c.RecordPath != "" {
		recorder, err := datarecording.New(c.RecordPath)
		if err != nil {
			return err
		}

		builder = builder.WithDataRecorder(recorder)
	}

	counter := replay.NewWriteBackCounter(c.NumCores)
	events := hooking.NewPosCounter(nil)
	builder = builder.
		WithWriteBacker(counter).
		WithHook(events)

	if c.MonitorPort != 0 {
		interval, _ := cmd.Flags().GetUint64("publish-interval")

		monitor := monitoring.NewMonitor().WithPortNumber(c.MonitorPort)
		url := monitor.StartServer()
		defer monitor.StopServer()

		bar := monitor.CreateProgressBar("replay", 0)
		defer monitor.CompleteProgressBar(bar)

		builder = builder.
			WithSnapshotPublisher(monitor, interval).
			WithProgressTracker(bar)

		if open, _ := cmd.Flags().GetBool("open-browser"); open {
			if err := browser.OpenURL(url + "/api/caches"); err != nil {
				logger.WithError(err).Warn("cannot open browser")
			}
		}
	}

	sim := builder.Build()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = sim.Run(ctx, replay.NewTraceReader(trace))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.WithFields(logrus.Fields{
		"accesses": sim.NumAccesses(),
		"cycle":    sim.CurrentCycle(),
		"inserts":  events.Count(rfc.HookPosInsert.Name),
		"evicts":   events.Count(rfc.HookPosEvict.Name),
	}).Info("replay finished")

	out := cmd.OutOrStdout()
	if err := sim.Report(out); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "\t%-22s = %d\n", "Total Write-backs",
		counter.Total())

	return err
}
