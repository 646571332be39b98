package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/plugin/ai/intent"
	"github.com/saudeviva/agenda/server"
	"github.com/saudeviva/agenda/server/service/scheduling"
	"github.com/saudeviva/agenda/store"
	"github.com/saudeviva/agenda/store/db"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Appointment scheduler for the SaudeViva clinic",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		instanceProfile, scheduler, extractor, storeInstance, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer storeInstance.Close()

		console := NewConsole(scheduler, extractor, instanceProfile, os.Stdin, os.Stdout)
		return console.Run(ctx)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		instanceProfile, scheduler, extractor, storeInstance, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, scheduler, extractor)
		if err != nil {
			storeInstance.Close()
			return fmt.Errorf("failed to create server: %w", err)
		}

		return s.Start(ctx)
	},
}

// bootstrap loads the profile, opens the store, runs migrations, and builds
// the scheduling service and intent extractor.
func bootstrap(ctx context.Context) (*profile.Profile, scheduling.Service, intent.Extractor, *store.Store, error) {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("invalid profile: %w", err)
	}

	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to create db driver: %w", err)
	}

	storeInstance := store.New(driver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}

	scheduler := scheduling.NewService(storeInstance, instanceProfile.Practitioner)
	extractor := newExtractor(instanceProfile)

	return instanceProfile, scheduler, extractor, storeInstance, nil
}

// newExtractor returns the OpenAI extractor when an API key is configured,
// otherwise the deterministic offline extractor.
func newExtractor(p *profile.Profile) intent.Extractor {
	if p.IsAIEnabled() {
		extractor, err := intent.NewOpenAIExtractor(&intent.Config{
			BaseURL: p.AIBaseURL,
			APIKey:  p.AIAPIKey,
			Model:   p.AIModel,
		})
		if err == nil {
			slog.Info("using OpenAI intent extractor", "model", p.AIModel)
			return extractor
		}
		slog.Warn("failed to initialize OpenAI extractor, falling back to offline extraction", "error", err)
	}
	return intent.NewMockExtractor()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetEnvPrefix("agenda")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", "error", err)
		os.Exit(1)
	}
}
