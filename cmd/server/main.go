package main

import (
	"archive-route-service/internal/adapters/cache"
	"archive-route-service/internal/adapters/repositories"
	"archive-route-service/internal/api"
	"archive-route-service/internal/config"
	"archive-route-service/internal/platform/db"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// main is the application composition root.
// It wires the SQL repositories behind read-through caches and starts the HTTP server.
func main() {
	cfg, err := config.Load(viper.New(), config.Get("VRP_CONFIG", ""))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	routes := cache.NewRoutesReadThrough(repositories.NewSQLRouteRepository(conn), cfg.Cache.TTL)
	matrices := cache.NewMatrixReadThrough(repositories.NewSQLMatrixRepository(conn), cfg.Cache.TTL)
	router := api.NewRouter(routes, matrices, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.Printf("Server listening addr=:%s driver=%s", cfg.Server.Port, cfg.DB.Driver)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
