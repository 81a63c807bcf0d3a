package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"saferoute/internal/api"
	"saferoute/internal/api/handlers"
	"saferoute/internal/config"
	"saferoute/internal/geo"
	"saferoute/internal/geocode"
	"saferoute/internal/logging"
	"saferoute/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	log := logging.Setup(cfg.Logging)

	// Reference data is loaded exactly once; the server does not start
	// without it.
	index, err := geo.LoadSafetyIndexFile(cfg.Safety.DataPath, cfg.Safety.GeohashPrecision)
	if err != nil {
		log.WithError(err).Fatal("Failed to load safety data")
	}
	if index.Len() == 0 {
		log.WithField("path", cfg.Safety.DataPath).Fatal("Safety data contains no reference points")
	}
	log.WithFields(logrus.Fields{
		"path":   cfg.Safety.DataPath,
		"points": index.Len(),
	}).Info("Loaded safety data")

	// Initialize services
	geocoder := geocode.NewNominatimClient(cfg.Geocoding)
	scorer := services.NewScoringService(cfg)
	routeService := services.NewRouteService(geocoder, scorer, index, cfg, log)

	// Setup router
	routeHandler := handlers.NewRouteHandler(routeService, index)
	router := api.NewRouter(routeHandler, log)

	engine := gin.New()
	router.Setup(engine)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Infof("Starting safe route server on %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
