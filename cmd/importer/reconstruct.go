package main

import (
	"archive-route-service/internal/adapters/archive"
	"archive-route-service/internal/adapters/export"
	"archive-route-service/internal/adapters/repositories"
	"archive-route-service/internal/domain"
	"archive-route-service/internal/services"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var reconstructOpts struct {
	archive   string
	locations string
	fleet     string
	out       string
	anonymise bool
	save      bool
}

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct",
	Short: "Rebuild routes from a delivery archive",
	Args:  cobra.NoArgs,
	RunE:  runReconstruct,
}

func init() {
	f := reconstructCmd.Flags()
	f.StringVar(&reconstructOpts.archive, "archive", "", "delivery archive CSV")
	f.StringVar(&reconstructOpts.locations, "locations", "", "locations CSV")
	f.StringVar(&reconstructOpts.fleet, "fleet", "", "fleet YAML")
	f.StringVar(&reconstructOpts.out, "out", "", "write routes JSON to this file")
	f.BoolVar(&reconstructOpts.anonymise, "anonymise", false, "store locations under anonymous names")
	f.BoolVar(&reconstructOpts.save, "save", false, "persist routes and input data to the database")
	_ = reconstructCmd.MarkFlagRequired("archive")
	_ = reconstructCmd.MarkFlagRequired("locations")
	_ = reconstructCmd.MarkFlagRequired("fleet")
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := reconstructOpts

	locs, err := readFile(opts.locations, func(f *os.File) ([]*domain.PhysicalLocation, error) {
		return archive.ReadLocations(f)
	})
	if err != nil {
		return err
	}

	f, err := os.Open(opts.fleet)
	if err != nil {
		return fmt.Errorf("open %q: %w", opts.fleet, err)
	}
	types, fleet, err := archive.ReadFleet(f)
	f.Close()
	if err != nil {
		return err
	}

	lines, err := readFile(opts.archive, func(f *os.File) ([]domain.DeliveryLine, error) {
		return archive.ReadDeliveryLines(f)
	})
	if err != nil {
		return err
	}

	locations, err := services.NewLocationRegistry(locs)
	if err != nil {
		return err
	}
	vehicles, err := services.NewVehicleRegistry(types, fleet)
	if err != nil {
		return err
	}

	res, err := services.ReconstructArchive(ctx, lines, locations, vehicles)
	if err != nil {
		return err
	}
	metrics.ObserveReconstruction(res.RouteCount, res.DroppedLines, res.TrimmedUnits)

	log.Printf("reconstruct: lines=%d routes=%d dropped=%d trimmed=%d over_capacity=%d",
		len(lines), res.RouteCount, res.DroppedLines, res.TrimmedUnits, len(res.OverCapacity))
	for _, vt := range vehicles.Types() {
		log.Printf("reconstruct: vehicle_type=%d name=%q used=%d available=%d", vt.Index, vt.Name, vt.Used, vt.Available)
	}

	if opts.out != "" {
		if err := createFile(opts.out, func(f *os.File) error {
			return export.WriteRoutes(f, res.Routes)
		}); err != nil {
			return err
		}
		log.Printf("reconstruct: wrote routes path=%s", opts.out)
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
	return repositories.SaveReconstruction(ctx, conn, res.Routes, locations.Locations(), vehicles.Types(), opts.anonymise)
}
