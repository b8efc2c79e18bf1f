package main

import (
	"fmt"
	"os"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/auth"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/config"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/db"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/excel"
	httphandler "github.com/SebastianInformatico/COTRAQ-sub000/internal/http"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/http/middleware"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/logger"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/pdf"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/repository"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	checklistRepo := repository.NewChecklistRepository(database)
	tripRepo := repository.NewTripRepository(database)
	fleetRepo := repository.NewFleetRepository(database)

	excelGenerator := excel.NewGenerator()
	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	checklistService := service.NewChecklistService(checklistRepo, tripRepo, fleetRepo, excelGenerator)
	tripService := service.NewTripService(tripRepo, fleetRepo, checklistRepo, pdfGenerator)
	fleetService := service.NewFleetService(fleetRepo, cfg.Fleet.DocumentExpiryDays)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(tripService, checklistService, fleetService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting fleet service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
