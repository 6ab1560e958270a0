package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/api"
	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "apiwire",
		Short: "HTTP boundary of the database API",
		Long: "apiwire negotiates content types, serializes JSON and XML bodies, routes " +
			"requests to API versions and renders failures as faults.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	addServeCommandTo(rootCmd)
	addValidateCommandTo(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addServeCommandTo(parent *cobra.Command) {
	var configPath string

	cmd := &cobra.Command{
		Use:     "serve",
		Example: "  apiwire serve --config apiwire.yaml",
		Short:   "Serves the versioned API until interrupted.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML configuration file")
	parent.AddCommand(cmd)
}

func addValidateCommandTo(parent *cobra.Command) {
	var configPath string

	cmd := &cobra.Command{
		Use:     "validate-config",
		Example: "  apiwire validate-config --config apiwire.yaml",
		Short:   "Loads and validates a configuration file.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(
				cmd.OutOrStdout(), "configuration is valid: %d version(s) on %s\n",
				len(cfg.Versions), cfg.Server.Addr(),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML configuration file")
	parent.AddCommand(cmd)
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Configure(logging.Config{Level: cfg.Logging.Level})

	handler, err := buildHandler(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.Launch(ctx, cfg.Server, handler)
}

// buildHandler mounts the version listing at "/", one application per configured
// version and the metrics endpoint.
func buildHandler(cfg *config.Config) (http.Handler, error) {
	versions, err := api.NewResource(api.NewVersionsController(cfg.Versions), cfg)
	if err != nil {
		return nil, xerrors.Errorf("versions resource: %w", err)
	}

	versionsRouter := api.NewRouter()
	versionsRouter.Get("/", versions.Action("index").ServeHTTP)

	apps := map[string]http.Handler{
		"/": api.FaultWrapper(cfg)(versionsRouter),
	}
	for _, version := range cfg.Versions {
		versionRouter := api.NewRouter()
		versionRouter.Get("/", versions.Action("show").ServeHTTP)
		apps[version.Prefix()] = api.FaultWrapper(cfg)(api.ContextMiddleware(cfg)(versionRouter))
	}

	urlMap, err := api.NewVersionedURLMap(cfg, apps)
	if err != nil {
		return nil, err
	}

	root := chi.NewRouter()
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/", urlMap)
	return root, nil
}
