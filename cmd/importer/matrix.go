package main

import (
	"archive-route-service/internal/adapters/archive"
	"archive-route-service/internal/adapters/distance"
	"archive-route-service/internal/adapters/export"
	"archive-route-service/internal/adapters/repositories"
	"archive-route-service/internal/domain"
	"archive-route-service/internal/ports"
	"archive-route-service/internal/services"
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Offline estimate: average urban truck speed and detour over the straight line.
const (
	offlineSpeedKMH   = 45.0
	offlineRoadFactor = 1.3
)

var matrixOpts struct {
	locations    string
	outDistances string
	outTimes     string
	anonymise    bool
	offline      bool
	save         bool
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Build distance and time matrices between all locations",
	Args:  cobra.NoArgs,
	RunE:  runMatrix,
}

func init() {
	f := matrixCmd.Flags()
	f.StringVar(&matrixOpts.locations, "locations", "", "locations CSV")
	f.StringVar(&matrixOpts.outDistances, "out-distances", "", "write the distance grid CSV to this file")
	f.StringVar(&matrixOpts.outTimes, "out-times", "", "write the time grid CSV to this file")
	f.BoolVar(&matrixOpts.anonymise, "anonymise", false, "label rows and columns with anonymous names")
	f.BoolVar(&matrixOpts.offline, "offline", false, "estimate from great-circle distances instead of calling the mapping service")
	f.BoolVar(&matrixOpts.save, "save", false, "persist the matrix to the database")
	_ = matrixCmd.MarkFlagRequired("locations")
}

func matrixService() (ports.MatrixService, error) {
	if matrixOpts.offline {
		return distance.NewHaversineMatrixService(offlineSpeedKMH, offlineRoadFactor)
	}
	if cfg.Bing.APIKey == "" {
		return nil, errors.New("matrix: bing.api_key is required (set VRP_BING_API_KEY or use --offline)")
	}
	return distance.NewBingMatrixService(cfg.Bing.APIKey, distance.WithBaseURL(cfg.Bing.BaseURL))
}

func runMatrix(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := matrixOpts

	locs, err := readFile(opts.locations, func(f *os.File) ([]*domain.PhysicalLocation, error) {
		return archive.ReadLocations(f)
	})
	if err != nil {
		return err
	}

	svc, err := matrixService()
	if err != nil {
		return err
	}

	builder, err := services.NewTravelMatrixBuilder(svc,
		services.WithMaxPairs(cfg.Matrix.MaxPairs),
		services.WithTravelMode(cfg.Matrix.TravelMode),
		services.WithConcurrency(cfg.Matrix.Concurrency),
		services.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	m, err := builder.Build(ctx, locs)
	if err != nil {
		return err
	}
	log.Printf("matrix: locations=%d offline=%t", m.Size(), opts.offline)

	labels := export.Labels(locs, opts.anonymise)
	grids := []struct {
		path string
		grid [][]float64
	}{
		{opts.outDistances, m.Distances},
		{opts.outTimes, m.Times},
	}
	for _, g := range grids {
		if g.path == "" {
			continue
		}
		if err := createFile(g.path, func(f *os.File) error {
			return export.WriteMatrixGrid(f, labels, g.grid)
		}); err != nil {
			return err
		}
		log.Printf("matrix: wrote grid path=%s", g.path)
	}

	if !opts.save {
		return nil
	}

	conn, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	return repositories.NewSQLMatrixRepository(conn).SaveMatrix(ctx, labels, m)
}
