package main

import (
	"fmt"
	"os"

	"venueops-backend/config"
	"venueops-backend/controllers"
	"venueops-backend/models"
	"venueops-backend/routes"
	"venueops-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log := config.NewLogger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	config.ConnectDB()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Modelo{},
		&models.Producto{},
		&models.MovimientoStock{},
		&models.Servicio{},
		&models.ExtensionTiempo{},
		&models.Adicional{},
		&models.ConsumoDetalle{},
		&models.Asistencia{},
		&models.AlertaLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	storage := services.NewStorageService(uploadDir, log)
	ledger := services.NewLedgerService(config.DB, log)
	alerts := services.NewAlertService(config.DB, log)
	clock := services.NewClockService(config.DB, alerts, log)

	if err := clock.Start(); err != nil {
		log.Fatal().Err(err).Msg("session clock failed to start")
	}
	defer clock.Stop()

	r := routes.SetupRouter(log, routes.Controllers{
		Servicio:    controllers.NewServicioController(ledger, clock),
		Asistencia:  controllers.NewAsistenciaController(storage),
		Comprobante: controllers.NewComprobanteController(storage),
		Dashboard:   controllers.NewDashboardController(clock),
		UploadDir:   uploadDir,
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
