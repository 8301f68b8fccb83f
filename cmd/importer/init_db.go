package main

import (
	"archive-route-service/internal/adapters/repositories"
	"log"

	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		log.Println("Initializing database schema...")
		if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
			return err
		}
		log.Println("Schema ready.")
		return nil
	},
}
