package main

import (
	"archive-route-service/internal/config"
	"archive-route-service/internal/platform/db"
	"archive-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	trace       bool
	metricsFile string
	cfg         config.Config
	registry    *prometheus.Registry
	metrics     *obs.Metrics
	shutdown    func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Rebuild archive routes and travel matrices for the route optimizer",
	Long: `importer turns a day of the delivery archive into per-vehicle-type routes,
and builds the distance and time matrices between all delivery locations.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (YAML); VRP_* environment variables override it")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false,
		"write OpenTelemetry spans to stderr")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"write the run's Prometheus metrics to this file (text exposition format)")

	rootCmd.AddCommand(initDBCmd, reconstructCmd, matrixCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(viper.New(), cfgFile)
	if err != nil {
		return err
	}

	registry = prometheus.NewRegistry()
	metrics, err = obs.NewMetrics(registry)
	if err != nil {
		return err
	}

	if trace {
		shutdown, err = obs.InitStdoutTracing(os.Stderr)
		if err != nil {
			return err
		}
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, reqID := obs.WithRequestID(parent)
	cmd.SetContext(ctx)
	log.Printf("req_id=%s cmd=%s", reqID, cmd.Name())

	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	var errs []error
	if metricsFile != "" && registry != nil {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics %q: %w", metricsFile, err))
		} else {
			log.Printf("metrics written path=%s", metricsFile)
		}
	}
	if shutdown != nil {
		errs = append(errs, shutdown(cmd.Context()))
		shutdown = nil
	}
	return errors.Join(errs...)
}

func openDB(ctx context.Context) (*sql.DB, error) {
	conn, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.URL)
	if err != nil {
		return nil, fmt.Errorf("importer: %w", err)
	}
	return conn, nil
}

// createFile opens path for writing; a failed close is reported like a failed write.
func createFile(path string, write func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()
	return write(f)
}

func readFile[T any](path string, read func(f *os.File) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	return read(f)
}
