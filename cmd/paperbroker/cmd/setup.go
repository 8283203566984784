package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/vadiminshakov/paperbroker/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively create a config file",
	RunE:  runSetup,
}

var setupOutputPath string

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVarP(&setupOutputPath, "output", "o", "config.yaml", "where to write the config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	balanceStr := cfg.InitialBalance.String()
	feeStr := cfg.FeeRate.String()
	durationStr := cfg.Duration.String()
	intervalStr := cfg.TickInterval.String()
	journal := cfg.JournalEnabled
	listenAddr := cfg.ListenAddr

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Initial cash balance").
				Value(&balanceStr).
				Validate(validateDecimal),
			huh.NewInput().
				Title("Fee rate (e.g. 0.001 for 0.1%)").
				Value(&feeStr).
				Validate(validateDecimal),
			huh.NewInput().
				Title("Simulation duration (e.g. 3m)").
				Value(&durationStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("Tick interval (e.g. 300ms)").
				Value(&intervalStr).
				Validate(validateDuration),
			huh.NewConfirm().
				Title("Persist outcome records to a WAL journal?").
				Value(&journal),
			huh.NewInput().
				Title("HTTP listen address (empty to disable)").
				Value(&listenAddr),
		),
	)

	if err := form.Run(); err != nil {
		return errors.Wrap(err, "setup wizard")
	}

	var err error
	cfg.InitialBalance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return errors.Wrap(err, "parse balance")
	}
	cfg.FeeRate, err = decimal.NewFromString(feeStr)
	if err != nil {
		return errors.Wrap(err, "parse fee rate")
	}
	cfg.Duration, err = time.ParseDuration(durationStr)
	if err != nil {
		return errors.Wrap(err, "parse duration")
	}
	cfg.TickInterval, err = time.ParseDuration(intervalStr)
	if err != nil {
		return errors.Wrap(err, "parse tick interval")
	}
	cfg.JournalEnabled = journal
	cfg.ListenAddr = listenAddr

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(setupOutputPath); err != nil {
		return err
	}

	fmt.Printf("config written to %s\n", setupOutputPath)
	return nil
}

func validateDecimal(s string) error {
	_, err := decimal.NewFromString(s)
	return err
}

func validateDuration(s string) error {
	_, err := time.ParseDuration(s)
	return err
}
