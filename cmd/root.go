package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisdamba/ridesim/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ridesim",
	Short: "Loads and simulates transactional traffic for a vehicle-sharing dataset",
	Long: `ridesim is a CLI tool that bulk-populates a city-partitioned dataset of
users, vehicles and rides, and generates a mixed read/write workload against it
to emulate production traffic for a fictional vehicle-sharing service.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().String("url", "postgres://root@localhost:26257/ridesim?sslmode=disable", "connection string to the ridesim database")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Int("num-threads", 5, "number of worker threads")
	rootCmd.PersistentFlags().Int64("seed", 42, "random seed for generated data")
	rootCmd.PersistentFlags().Duration("grace-period", 15*time.Second, "time allowed for workers to drain after an interrupt")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}

// loadConfig reads and validates the options shared by every command, exiting
// with status 1 on any configuration problem.
func loadConfig() *models.Config {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	if err := validateConnString(cfg.ConnString); err != nil {
		fatal(err)
	}
	return cfg
}

func validateConnString(connString string) error {
	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return models.NewConfigError("invalid connection string %q: %v", connString, err)
	}
	if poolCfg.ConnConfig.Database == "" {
		return models.NewConfigError("the connection string needs to point to a database, example: postgres://root@localhost:26257/ridesim?sslmode=disable")
	}
	return nil
}

func newLogger(cfg *models.Config) *zap.SugaredLogger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		fatal(models.NewConfigError("invalid log level %q", cfg.LogLevel))
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		fatal(err)
	}
	return logger.Sugar()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
