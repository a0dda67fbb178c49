package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pankajredekar/catalogseed/internal/config"
	"github.com/pankajredekar/catalogseed/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel = slog.LevelInfo

	rootCmd = &cobra.Command{
		Use:   "catalogseed",
		Short: "Seed a catalog database with synthetic categories and items",
		Long: `catalogseed generates categories and items, inserts them in batches
(one transaction per batch) and writes the CSV fixtures used by the JMeter
load test plans.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		RunE:              runSeed,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("database-url", "", "database URL (postgres://, mysql:// or sqlite://)")

	rootCmd.Flags().Int("categories", 0, "number of categories to generate")
	rootCmd.Flags().Int("items", 0, "number of items to generate")
	rootCmd.Flags().Int64("seed", 0, "random seed (0 picks one from the clock)")
	rootCmd.Flags().String("output-dir", "", "directory for the CSV fixtures")
	rootCmd.Flags().Bool("no-progress", false, "log progress lines instead of drawing bars")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	_ = viper.BindPFlag("categories", rootCmd.Flags().Lookup("categories"))
	_ = viper.BindPFlag("items", rootCmd.Flags().Lookup("items"))
	_ = viper.BindPFlag("seed", rootCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("no_progress", rootCmd.Flags().Lookup("no-progress"))
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the run in progress.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		utils.PrintError("%v", err)
		return err
	}
	return nil
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	config.BindEnv(viper.GetViper())

	return setupLogging(viper.GetString("logging.level"), viper.GetString("logging.format"))
}

func setupLogging(level, format string) error {
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg.Apply(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
