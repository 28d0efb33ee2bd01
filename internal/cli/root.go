// Package cli wires the tracer pipeline behind a cobra command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"xattr_sweeper/internal/bpfloader"
	"xattr_sweeper/internal/config"
	"xattr_sweeper/internal/eventstream"
	"xattr_sweeper/internal/ingester"
	"xattr_sweeper/internal/store"
	"xattr_sweeper/internal/sweeper"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "XATTR_SWEEPER"

var rootCmd = &cobra.Command{
	Use:   "xattr_sweeper",
	Short: "Expire files tagged with a reserved extended attribute",
	Long: `xattr_sweeper traces the setxattr and lsetxattr syscalls with eBPF.
Setting the reserved attribute (default user.expire_at) to an epoch-seconds
value schedules the file for deletion:

    setfattr -n user.expire_at -v 1700000000 /tmp/report.csv

Records are kept in SQLite and swept on a fixed interval. Requires
privileges sufficient to attach kernel tracepoints.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", config.DefaultDBPath, "path to the SQLite database")
	flags.String("xattr-name", config.DefaultAttrName, "reserved attribute name that schedules an expiration")
	flags.Duration("sweep-interval", config.DefaultSweepInterval, "how often to check for due records")
	flags.Duration("poll-timeout", config.DefaultPollTimeout, "bounded wait on the event channel")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the configuration from flags and environment.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{
		DBPath:        viper.GetString("db"),
		AttrName:      viper.GetString("xattr-name"),
		SweepInterval: viper.GetDuration("sweep-interval"),
		PollTimeout:   viper.GetDuration("poll-timeout"),
		Verbose:       viper.GetBool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() //nolint:errcheck // Flushing on exit, nothing to do on failure
	}()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("closing store", zap.Error(err))
		}
	}()

	// Loading or attaching the tracer is the one fatal startup condition:
	// it means missing privileges or missing kernel support.
	loader, err := bpfloader.New()
	if err != nil {
		return err
	}
	defer func() {
		if err := loader.Close(); err != nil {
			logger.Error("closing BPF loader", zap.Error(err))
		}
	}()

	if err := loader.Attach(); err != nil {
		return err
	}

	rd, err := loader.OpenPerfBuffer()
	if err != nil {
		return err
	}
	source := eventstream.NewPerfSource(rd, cfg.PollTimeout)
	defer func() {
		_ = source.Close() //nolint:errcheck // Closed again below to unblock the ingester
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ing := ingester.New(source, st, cfg.AttrName, logger)
	swp := sweeper.New(st, cfg.SweepInterval, logger)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ing.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		swp.Run(ctx)
	}()

	logger.Info("tracing attribute-set syscalls",
		zap.String("xattr_name", cfg.AttrName),
		zap.String("db", cfg.DBPath),
		zap.Duration("sweep_interval", cfg.SweepInterval))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	// No graceful drain: pending kernel contexts are discarded at teardown.
	cancel()
	_ = source.Close() //nolint:errcheck // Unblocks the ingester read
	wg.Wait()

	if lost := source.Lost(); lost > 0 {
		logger.Warn("events dropped in transport", zap.Uint64("count", lost))
	}
	stats := ing.Stats()
	logger.Info("ingest totals",
		zap.Uint64("scheduled", stats.Scheduled),
		zap.Uint64("ignored", stats.Ignored),
		zap.Uint64("rejected", stats.Rejected))

	return nil
}
