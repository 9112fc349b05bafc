package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuflow/sharepoint-client/internal/config"
	"github.com/docuflow/sharepoint-client/internal/logger"
	"github.com/docuflow/sharepoint-client/pkg/sharepoint"
)

// App bundles the dependencies every command needs: the persisted
// configuration, a logger honoring the debug flag, and a constructed SDK
// client.
type App struct {
	Config *config.Configuration
	Logger logger.Logger
	Client *sharepoint.Client
}

// newApp loads the configuration and constructs the SDK client. Commands that
// only write configuration use newAppWithoutClient instead, since a client
// requires a complete credential set.
func newApp(cmd *cobra.Command) (*App, error) {
	a, err := newAppWithoutClient(cmd)
	if err != nil {
		return nil, err
	}

	client, err := sharepoint.NewClient(a.Config.ToClientConfig(a.Logger))
	if err != nil {
		return nil, fmt.Errorf("building client (run 'sharepoint-client configure' first): %w", err)
	}
	a.Client = client
	return a, nil
}

func newAppWithoutClient(cmd *cobra.Command) (*App, error) {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	return &App{
		Config: cfg,
		Logger: logger.NewDefaultLogger(debug || cfg.Debug),
	}, nil
}
