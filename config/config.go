// Package config loads the trading agent configuration from a YAML
// file, falling back to built-in defaults for anything omitted.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings of the agent.
type Config struct {
	// InitialBalance starting cash of the portfolio ledger.
	InitialBalance decimal.Decimal
	// FeeRate commission rate applied to both buys and sells.
	FeeRate decimal.Decimal
	// Duration how long the simulation dispatches new ticks.
	Duration time.Duration
	// TickInterval delay between consecutive simulated ticks.
	TickInterval time.Duration
	// Instruments ticker universe; empty means the built-in one.
	Instruments []string
	// MinPrice/MaxPrice band simulated prices are drawn from.
	MinPrice float64
	MaxPrice float64
	// JournalEnabled persists outcome records to a WAL journal.
	JournalEnabled bool
	// JournalDir directory of the outcome journal.
	JournalDir string
	// ListenAddr address of the summary/feed HTTP server, empty disables it.
	ListenAddr string
}

type configTmp struct {
	InitialBalance string        `yaml:"initial_balance,omitempty"`
	FeeRate        string        `yaml:"fee_rate,omitempty"`
	Duration       time.Duration `yaml:"duration,omitempty"`
	TickInterval   time.Duration `yaml:"tick_interval,omitempty"`
	Instruments    []string      `yaml:"instruments,omitempty"`
	MinPrice       float64       `yaml:"min_price,omitempty"`
	MaxPrice       float64       `yaml:"max_price,omitempty"`
	Journal        bool          `yaml:"journal,omitempty"`
	JournalDir     string        `yaml:"journal_dir,omitempty"`
	ListenAddr     string        `yaml:"listen_addr,omitempty"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		InitialBalance: decimal.NewFromInt(10000),
		FeeRate:        decimal.NewFromFloat(0.001),
		Duration:       180 * time.Second,
		TickInterval:   300 * time.Millisecond,
		MinPrice:       50,
		MaxPrice:       500,
		JournalEnabled: false,
		JournalDir:     "./wal/outcomes",
		ListenAddr:     "",
	}
}

// Load reads the YAML config at path, applying defaults for omitted
// fields. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "parse config yaml")
	}

	if tmp.InitialBalance != "" {
		cfg.InitialBalance, err = decimal.NewFromString(tmp.InitialBalance)
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid initial_balance %q", tmp.InitialBalance)
		}
	}
	if tmp.FeeRate != "" {
		cfg.FeeRate, err = decimal.NewFromString(tmp.FeeRate)
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid fee_rate %q", tmp.FeeRate)
		}
	}
	if tmp.Duration > 0 {
		cfg.Duration = tmp.Duration
	}
	if tmp.TickInterval > 0 {
		cfg.TickInterval = tmp.TickInterval
	}
	if len(tmp.Instruments) > 0 {
		cfg.Instruments = tmp.Instruments
	}
	if tmp.MinPrice > 0 {
		cfg.MinPrice = tmp.MinPrice
	}
	if tmp.MaxPrice > 0 {
		cfg.MaxPrice = tmp.MaxPrice
	}
	cfg.JournalEnabled = tmp.Journal
	if tmp.JournalDir != "" {
		cfg.JournalDir = tmp.JournalDir
	}
	cfg.ListenAddr = tmp.ListenAddr

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.InitialBalance.IsNegative() {
		return errors.Errorf("initial_balance must not be negative, got %s", c.InitialBalance.String())
	}
	if c.FeeRate.IsNegative() {
		return errors.Errorf("fee_rate must not be negative, got %s", c.FeeRate.String())
	}
	if c.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if c.TickInterval <= 0 {
		return errors.New("tick_interval must be positive")
	}
	if c.MinPrice <= 0 || c.MaxPrice <= c.MinPrice {
		return errors.Errorf("invalid price band [%f, %f]", c.MinPrice, c.MaxPrice)
	}
	return nil
}

// Save writes the configuration to a YAML file; used by the setup wizard.
func (c Config) Save(path string) error {
	tmp := configTmp{
		InitialBalance: c.InitialBalance.String(),
		FeeRate:        c.FeeRate.String(),
		Duration:       c.Duration,
		TickInterval:   c.TickInterval,
		Instruments:    c.Instruments,
		MinPrice:       c.MinPrice,
		MaxPrice:       c.MaxPrice,
		Journal:        c.JournalEnabled,
		JournalDir:     c.JournalDir,
		ListenAddr:     c.ListenAddr,
	}

	out, err := yaml.Marshal(tmp)
	if err != nil {
		return errors.Wrap(err, "marshal config yaml")
	}

	return errors.Wrapf(os.WriteFile(path, out, 0o644), "write config %s", path)
}
