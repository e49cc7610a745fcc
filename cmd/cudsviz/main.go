// Command cudsviz converts simulation container documents into
// visualization datasets.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/pkg/config"
	"github.com/ajitpratap0/cudsviz/pkg/converter"
	"github.com/ajitpratap0/cudsviz/pkg/cuba"
	"github.com/ajitpratap0/cudsviz/pkg/logger"
	"github.com/ajitpratap0/cudsviz/pkg/metrics"
	"github.com/ajitpratap0/cudsviz/pkg/observability"
	"github.com/ajitpratap0/cudsviz/pkg/sink"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the state every subcommand shares once the root command's
// pre-run hook has resolved the configuration.
type app struct {
	v          *viper.Viper
	configFile string

	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector

	shutdownTracing observability.ShutdownFunc
	metricsServer   *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "cudsviz",
		Short: "cudsviz - visualization datasets from simulation containers",
		Long: `cudsviz converts mesh, particle and lattice container documents into
canonical visualization datasets and persists them as legacy VTK or as
columnar attribute tables.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while running, e.g. :9090")
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyMetricsAddr, flags.Lookup("metrics-addr"))

	root.AddCommand(
		newVersionCmd(),
		newKeysCmd(a),
		newConvertCmd(a),
		newBatchCmd(a),
		newInspectCmd(a),
		newExportCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cudsviz v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// setup resolves the configuration and starts logging, metrics and
// tracing.
func (a *app) setup(cmd *cobra.Command) error {
	base := config.Default()
	if a.configFile != "" {
		loaded, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		base = loaded
	}
	cfg, err := config.FromViper(a.v, base)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	a.logger = logger.With(zap.String("component", "cudsviz-cli"), zap.String("command", cmd.Name()))

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	a.collector = metrics.NewCollector(cfg.Metrics.Namespace, a.registry)
	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}

	a.shutdownTracing, err = observability.InitTracing(observability.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		Environment:    os.Getenv("ENVIRONMENT"),
		SamplingRate:   cfg.Tracing.SamplingRate,
		Writer:         os.Stderr,
	})
	return err
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", addr))
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if a.shutdownTracing != nil {
		errs = append(errs, a.shutdownTracing(ctx))
	}
	if a.metricsServer != nil {
		errs = append(errs, a.metricsServer.Shutdown(ctx))
	}
	_ = logger.Sync() // stderr sync fails on some platforms
	return errors.Join(errs...)
}

// converter builds a converter honouring the configured key schemas.
func (a *app) converter() (*converter.Converter, error) {
	points, cells, err := a.cfg.Conversion.Keys()
	if err != nil {
		return nil, err
	}
	return converter.New(
		converter.WithLogger(a.logger),
		converter.WithRegistry(cuba.Default().WithLogger(a.logger)),
		converter.WithPointKeys(points...),
		converter.WithCellKeys(cells...),
		converter.WithMetrics(a.collector),
	), nil
}

func (a *app) sinkOptions() *sink.Options {
	return &sink.Options{
		Region:          a.cfg.Output.Region,
		Endpoint:        a.cfg.Output.Endpoint,
		CredentialsFile: a.cfg.Output.CredentialsFile,
		Logger:          a.logger,
	}
}
