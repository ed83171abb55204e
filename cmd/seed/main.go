package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/oggyb/desire-match/internal/config"
	"github.com/oggyb/desire-match/internal/db"
	"github.com/oggyb/desire-match/internal/logger"
)

type seedOptions struct {
	minimal bool
	fixture string
	users   int
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the database and load demo data",
		Long: `Reset the configured database and load demo data.

By default a random population of --users accounts with likes and matches
is generated. --minimal loads a tiny deterministic dataset and --fixture
loads accounts and likes from a YAML file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			logger.InitFromConfig(cfg)

			database, err := db.NewDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to init db: %w", err)
			}
			if err := runSeed(database, opts); err != nil {
				return err
			}
			logger.Info("seeding completed", "driver", cfg.DB.Driver)
			fmt.Fprintln(cmd.OutOrStdout(), "Seeding completed.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.minimal, "minimal", false, "load the small deterministic dataset")
	cmd.Flags().StringVar(&opts.fixture, "fixture", "", "load users and likes from a YAML fixture file")
	cmd.Flags().IntVar(&opts.users, "users", 20, "number of random users to generate")
	cmd.MarkFlagsMutuallyExclusive("minimal", "fixture")

	return cmd
}

func runSeed(database *gorm.DB, opts *seedOptions) error {
	switch {
	case opts.minimal:
		return db.SeedMinimalTestData(database)
	case opts.fixture != "":
		f, err := os.Open(opts.fixture)
		if err != nil {
			return fmt.Errorf("failed to open fixture: %w", err)
		}
		defer f.Close()
		fixture, err := db.LoadFixture(f)
		if err != nil {
			return err
		}
		return db.SeedFixture(database, fixture)
	default:
		if opts.users < 2 {
			return fmt.Errorf("--users must be at least 2, got %d", opts.users)
		}
		return db.SeedTestData(database, opts.users)
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
