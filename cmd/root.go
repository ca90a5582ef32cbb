package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/wxapis/apiclient"
	"github.com/s0up4200/wxapis/assets"
	"github.com/s0up4200/wxapis/config"
	"github.com/s0up4200/wxapis/filter"
	"github.com/s0up4200/wxapis/metrics"
	"github.com/s0up4200/wxapis/node"
	"github.com/s0up4200/wxapis/statesvc"
)

var (
	cfgFile      string
	cfg          *config.Config
	logger       zerolog.Logger
	registry     *prometheus.Registry
	assetsClient *assets.Client
	nodeClient   *node.Client
	stateClient  *statesvc.Client
	filters      *filter.Manager

	outputJSON bool

	appVersion = "dev"
	buildTime  = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wxapis",
	Short: "Query the Waves.Exchange assets, node and state services",
	Long: `wxapis is a CLI for the Waves.Exchange REST services. It reads asset
quantities, node balances, account data and invoke state changes, evaluates
dApp expressions and broadcasts signed transactions.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: logMetricsSummary,
}

// SetVersion sets the version reported by the version command and the User-Agent
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// No config needed
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wxapis %s (built %s)\n", appVersion, buildTime)
	},
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	opts := []apiclient.Option{
		apiclient.WithTimeout(cfg.HTTP.Timeout),
		apiclient.WithLogger(logger),
	}
	if cfg.HTTP.UserAgent != "" {
		opts = append(opts, apiclient.WithUserAgent(cfg.HTTP.UserAgent+"/"+appVersion))
	}
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		opts = append(opts, apiclient.WithMetrics(metrics.NewMetrics(cfg.Metrics.Namespace, registry)))
	}

	if cfg.Services.Assets.URL != "" {
		if assetsClient, err = assets.NewClient(cfg.Services.Assets.URL, opts...); err != nil {
			return fmt.Errorf("failed to create assets client: %w", err)
		}
	}
	if cfg.Services.Node.URL != "" {
		if nodeClient, err = node.NewClient(cfg.Services.Node.URL, opts...); err != nil {
			return fmt.Errorf("failed to create node client: %w", err)
		}
	}
	if cfg.Services.State.URL != "" {
		if stateClient, err = statesvc.NewClient(cfg.Services.State.URL, opts...); err != nil {
			return fmt.Errorf("failed to create state service client: %w", err)
		}
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filters); err != nil {
		return fmt.Errorf("invalid filters in config: %w", err)
	}

	logger.Debug().
		Bool("assets", assetsClient != nil).
		Bool("node", nodeClient != nil).
		Bool("state", stateClient != nil).
		Strs("filters", filters.ListFilters()).
		Msg("Clients initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// logMetricsSummary logs the request counters gathered during the command
func logMetricsSummary(cmd *cobra.Command, args []string) error {
	if registry == nil {
		return nil
	}

	families, err := registry.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to gather metrics")
		return nil
	}

	for _, line := range summarizeCounters(families) {
		logger.Debug().
			Str("metric", line.name).
			Str("labels", line.labels).
			Float64("value", line.value).
			Msg("Request metrics")
	}
	return nil
}

func requireAssets() (*assets.Client, error) {
	if assetsClient == nil {
		return nil, fmt.Errorf("assets service is not configured (set services.assets.url)")
	}
	return assetsClient, nil
}

func requireNode() (*node.Client, error) {
	if nodeClient == nil {
		return nil, fmt.Errorf("node service is not configured (set services.node.url)")
	}
	return nodeClient, nil
}

func requireState() (*statesvc.Client, error) {
	if stateClient == nil {
		return nil, fmt.Errorf("state service is not configured (set services.state.url)")
	}
	return stateClient, nil
}
