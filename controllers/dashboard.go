package controllers

import (
	"net/http"
	"time"

	"venueops-backend/config"
	"venueops-backend/models"
	"venueops-backend/services"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
)

// DashboardController aggregates the reception desk's landing view.
type DashboardController struct {
	Clock *services.ClockService
}

func NewDashboardController(clock *services.ClockService) *DashboardController {
	return &DashboardController{Clock: clock}
}

type DashboardOverview struct {
	ServiciosActivos      []services.SesionSnapshot `json:"serviciosActivos"`
	IngresosHoy           float64                   `json:"ingresosHoy"`
	ServiciosHoy          int                       `json:"serviciosHoy"`
	AsistenciasPendientes int                       `json:"asistenciasPendientes"`
	StockBajo             []models.Producto         `json:"stockBajo"`
}

// GetDashboardOverview returns the live state of the venue: running
// countdowns, today's recomputed revenue, pending selfie approvals and
// products under their minimum stock.
func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	now := time.Now()
	inicio := utils.BeginningOfDay(now)

	// Live countdowns straight from the clock
	snapshots := dc.Clock.Tick(now)

	// Today's revenue, recomputed from the ledgers of finalized sessions
	var finalizados []models.Servicio
	if err := config.DB.
		Preload("Extensiones").
		Preload("Adicionales").
		Preload("Consumos").
		Where("estado = ? AND hora_inicio >= ?", models.EstadoFinalizado, inicio).
		Find(&finalizados).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load today's sessions")
		return
	}
	var ingresosHoy float64
	for _, s := range finalizados {
		ingresosHoy += s.Total()
	}

	var pendientes int64
	config.DB.Model(&models.Asistencia{}).
		Where("estado = ?", models.AsistenciaPendiente).
		Count(&pendientes)

	var stockBajo []models.Producto
	config.DB.Where("activo = ? AND stock <= stock_minimo", true).
		Order("stock").
		Limit(10).
		Find(&stockBajo)

	c.JSON(http.StatusOK, DashboardOverview{
		ServiciosActivos:      snapshots,
		IngresosHoy:           ingresosHoy,
		ServiciosHoy:          len(finalizados),
		AsistenciasPendientes: int(pendientes),
		StockBajo:             stockBajo,
	})
}
