package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/ridesim/internal/models"
	"github.com/chrisdamba/ridesim/internal/repositories/postgres"
	"github.com/chrisdamba/ridesim/internal/simulator"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate fake traffic for the ridesim database",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		log := newLogger(cfg)
		defer log.Sync()

		if err := cfg.ValidateRun(); err != nil {
			fatal(err)
		}

		cities := cfg.Cities
		if len(cities) == 0 {
			cities = models.DefaultPartitionMap().Cities()
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		coord := simulator.NewCoordinator(cfg.GracePeriod, log)

		store, err := postgres.NewStore(ctx, cfg.ConnString, log)
		if err != nil {
			fatal(err)
		}
		defer store.Close()

		output, err := simulator.NewOutputDestination(cfg)
		if err != nil {
			fatal(err)
		}
		defer func() {
			if closer, ok := output.(io.Closer); ok {
				_ = closer.Close()
			}
		}()

		repos := simulator.Repos{
			Users:    store.Users(),
			Vehicles: store.Vehicles(),
			Rides:    store.Rides(),
		}
		sim := simulator.New(cfg, cities, repos, output, log)

		if err := sim.WarmUp(ctx); err != nil {
			log.Errorw("warm-up failed", "error", err)
			os.Exit(1)
		}

		var runErr error
		done := make(chan struct{})
		go func() {
			defer close(done)
			runErr = sim.Run(ctx)
		}()

		coord.Wait(cancel, done)
		if runErr != nil {
			log.Errorw("simulation failed", "error", runErr)
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringArray("city", nil, "cities to generate load for, repeatable (default: all cities in the default partition map)")
	runCmd.Flags().Float64("read-only-percentage", 0.95, "fraction of simulated operations that are read-only home screen loads, between 0 and 1")
	runCmd.Flags().String("events", "none", "where to publish simulated operation events (none|console|kafka)")
	runCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list for the events output")

	cobra.CheckErr(viper.BindPFlags(runCmd.Flags()))
	rootCmd.AddCommand(runCmd)
}
