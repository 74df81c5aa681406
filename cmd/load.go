package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/ridesim/internal/models"
	"github.com/chrisdamba/ridesim/internal/repositories/postgres"
	"github.com/chrisdamba/ridesim/internal/simulator"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load synthetic users, vehicles and rides into the database",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		log := newLogger(cfg)
		defer log.Sync()

		if err := cfg.ValidateLoad(); err != nil {
			fatal(err)
		}
		partitions, err := models.ParsePartitionPairs(cfg.PartitionPairs)
		if err != nil {
			fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		coord := simulator.NewCoordinator(cfg.GracePeriod, log)

		store, err := postgres.NewStore(ctx, cfg.ConnString, log)
		if err != nil {
			fatal(err)
		}
		defer store.Close()

		if !cfg.SkipInit {
			if err := store.InitTables(ctx); err != nil {
				fatal(err)
			}
		}
		if cfg.EnableGeoPartitioning {
			if err := store.ApplyGeoPartitioning(ctx, partitions); err != nil {
				fatal(err)
			}
		}

		repos := simulator.Repos{
			Users:    store.Users(),
			Vehicles: store.Vehicles(),
			Rides:    store.Rides(),
		}

		var loadErr error
		done := make(chan struct{})
		go func() {
			defer close(done)
			loadErr = simulator.RunLoad(ctx, cfg, partitions.Cities(), repos, log)
		}()

		coord.Wait(cancel, done)
		if loadErr != nil {
			log.Errorw("load failed", "error", loadErr)
			os.Exit(1)
		}
	},
}

func init() {
	loadCmd.Flags().Int("num-users", 50, "number of random users to add to the dataset")
	loadCmd.Flags().Int("num-vehicles", 10, "number of random vehicles to add to the dataset")
	loadCmd.Flags().Int("num-rides", 500, "number of random rides to add to the dataset")
	loadCmd.Flags().StringArray("partition-by", nil, "pairs in the form <partition>:<city> used for geo-partitioning, repeatable")
	loadCmd.Flags().Bool("enable-geo-partitioning", false, "partition tables by city list (requires an enterprise license)")
	loadCmd.Flags().Bool("skip-init", false, "keep existing tables and data when loading")

	cobra.CheckErr(viper.BindPFlags(loadCmd.Flags()))
	rootCmd.AddCommand(loadCmd)
}
