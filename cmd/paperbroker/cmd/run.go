package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vadiminshakov/paperbroker/config"
	"github.com/vadiminshakov/paperbroker/internal/agent"
	"github.com/vadiminshakov/paperbroker/internal/desk"
	"github.com/vadiminshakov/paperbroker/internal/feed"
	"github.com/vadiminshakov/paperbroker/internal/ledger"
	"github.com/vadiminshakov/paperbroker/internal/outcomes"
	"github.com/vadiminshakov/paperbroker/internal/report"
	"github.com/vadiminshakov/paperbroker/internal/storage/journal"
	"github.com/vadiminshakov/paperbroker/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a trading simulation",
	Long: `Run a trading simulation using settings from a YAML configuration
file, or the built-in defaults when no file is given.

Example:
  paperbroker run --config config.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to YAML config file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer logger.Sync()

	led, err := ledger.New(cfg.InitialBalance, cfg.FeeRate, logger.Named("ledger"))
	if err != nil {
		return err
	}
	tradingDesk := desk.New(led, logger.Named("desk"))

	sinks := []outcomes.Sink{outcomes.NewLogSink(logger.Named("outcomes"))}

	var hub *web.Hub
	if cfg.ListenAddr != "" {
		hub = web.NewHub(logger.Named("web"))
		sinks = append(sinks, hub)
	}

	if cfg.JournalEnabled {
		store, err := journal.NewWALStore(cfg.JournalDir)
		if err != nil {
			return errors.Wrap(err, "init outcome journal")
		}
		sinks = append(sinks, store)
	}

	dispatcher := outcomes.NewDispatcher(logger.Named("dispatcher"), sinks...)
	defer dispatcher.Close()

	simulator := feed.NewSimulator(logger.Named("feed"),
		feed.WithInstruments(cfg.Instruments),
		feed.WithTickInterval(cfg.TickInterval),
		feed.WithPriceBounds(cfg.MinPrice, cfg.MaxPrice))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the desk and the web stack outlive the feed so the final summary
	// can still be served after the last tick
	deskCtx, deskCancel := context.WithCancel(context.Background())
	defer deskCancel()

	g, gctx := errgroup.WithContext(deskCtx)
	g.Go(func() error {
		if err := tradingDesk.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if hub != nil {
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		server := web.NewServer(cfg.ListenAddr, tradingDesk, hub, logger.Named("web"))
		g.Go(func() error {
			return server.Start(gctx)
		})
	}

	logger.Info("starting simulation",
		zap.Duration("duration", cfg.Duration),
		zap.String("initial_balance", cfg.InitialBalance.String()),
		zap.String("fee_rate", cfg.FeeRate.String()))

	simCtx, simCancel := context.WithTimeout(ctx, cfg.Duration)
	defer simCancel()

	ticks := simulator.Stream(simCtx)
	if err := agent.New(tradingDesk, dispatcher, logger.Named("agent")).Run(deskCtx, ticks); err != nil {
		return err
	}

	summary, err := tradingDesk.Summary(deskCtx)
	if err != nil {
		return errors.Wrap(err, "fetch final summary")
	}

	fmt.Println(report.Render(summary))

	deskCancel()
	return g.Wait()
}
