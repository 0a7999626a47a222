package controllers

import (
	"net/http"
	"time"

	"venueops-backend/config"
	"venueops-backend/models"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the financial analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64          `json:"currentMonthRevenue"`
	MonthGrowth           float64          `json:"monthGrowth"`
	CurrentQuarterRevenue float64          `json:"currentQuarterRevenue"`
	QuarterGrowth         float64          `json:"quarterGrowth"`
	CurrentYearRevenue    float64          `json:"currentYearRevenue"`
	YearGrowth            float64          `json:"yearGrowth"`
	TopModelos            []ModeloSummary  `json:"topModelos"`
	TopProductos          []ProductoVenta  `json:"topProductos"`
	QuickStats            QuickStatistics  `json:"quickStats"`
}

type ModeloSummary struct {
	Email     string  `json:"email"`
	Nombre    string  `json:"nombre"`
	Servicios int     `json:"servicios"`
	Ingresos  float64 `json:"ingresos"`
}

type ProductoVenta struct {
	Nombre   string `json:"nombre"`
	Unidades int    `json:"unidades"`
}

type QuickStatistics struct {
	TotalServicios    int     `json:"totalServicios"`
	ServiciosActivos  int     `json:"serviciosActivos"`
	AvgServicioValor  float64 `json:"avgServicioValor"`
	AvgDuracionMin    float64 `json:"avgDuracionMin"`
}

// GetReportAnalytics returns the complete financial summary. Session totals
// are always recomputed from the ledgers, never read from a stored column.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	loc := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, loc)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthRevenue, err := rc.getRevenue(firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}
	lastMonthRevenue, err := rc.getRevenue(firstOfMonth.AddDate(0, -1, 0), lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(rc.getQuarterStart(now), rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}
	lastQuarterRevenue, err := rc.getRevenue(
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, loc),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, loc))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}
	lastYearRevenue, err := rc.getRevenue(
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, loc),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, loc))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	topModelos, err := rc.getTopModelos(firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top models")
		return
	}

	topProductos, err := rc.getTopProductos(firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top products")
		return
	}

	quickStats, err := rc.getQuickStatistics()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue),
		TopModelos:            topModelos,
		TopProductos:          topProductos,
		QuickStats:            quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) finalizedInRange(start, end time.Time) ([]models.Servicio, error) {
	var servicios []models.Servicio
	err := config.DB.
		Preload("Extensiones").
		Preload("Adicionales").
		Preload("Consumos").
		Where("estado = ? AND hora_inicio BETWEEN ? AND ?", models.EstadoFinalizado, start, end).
		Find(&servicios).Error
	return servicios, err
}

func (rc *ReportController) getRevenue(start, end time.Time) (float64, error) {
	servicios, err := rc.finalizedInRange(start, end)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, s := range servicios {
		total += s.Total()
	}
	return total, nil
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getTopModelos(start, end time.Time, limit int) ([]ModeloSummary, error) {
	servicios, err := rc.finalizedInRange(start, end)
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string]*ModeloSummary)
	for _, s := range servicios {
		entry, ok := byEmail[s.ModeloEmail]
		if !ok {
			entry = &ModeloSummary{Email: s.ModeloEmail, Nombre: s.ModeloNombre}
			byEmail[s.ModeloEmail] = entry
		}
		entry.Servicios++
		entry.Ingresos += s.Total()
	}

	top := make([]ModeloSummary, 0, len(byEmail))
	for _, entry := range byEmail {
		top = append(top, *entry)
	}
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if top[j].Ingresos > top[i].Ingresos {
				top[i], top[j] = top[j], top[i]
			}
		}
	}
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (rc *ReportController) getTopProductos(start, end time.Time, limit int) ([]ProductoVenta, error) {
	var productos []ProductoVenta
	err := config.DB.Table("movimientos_stock").
		Select("productos.nombre, SUM(-movimientos_stock.cantidad) as unidades").
		Joins("JOIN productos ON productos.id = movimientos_stock.producto_id").
		Where("movimientos_stock.tipo = ? AND movimientos_stock.created_at BETWEEN ? AND ?",
			models.MovimientoConsumo, start, end).
		Group("productos.nombre").
		Order("unidades DESC").
		Limit(limit).
		Scan(&productos).Error
	return productos, err
}

func (rc *ReportController) getQuickStatistics() (QuickStatistics, error) {
	var stats QuickStatistics

	var totalServicios int64
	if err := config.DB.Model(&models.Servicio{}).
		Where("estado = ?", models.EstadoFinalizado).
		Count(&totalServicios).Error; err != nil {
		return stats, err
	}
	stats.TotalServicios = int(totalServicios)

	var activos int64
	if err := config.DB.Model(&models.Servicio{}).
		Where("estado = ?", models.EstadoActivo).
		Count(&activos).Error; err != nil {
		return stats, err
	}
	stats.ServiciosActivos = int(activos)

	if stats.TotalServicios > 0 {
		inicio := time.Time{}
		fin := time.Now()
		servicios, err := rc.finalizedInRange(inicio, fin)
		if err != nil {
			return stats, err
		}
		var ingresos float64
		var minutos int
		for _, s := range servicios {
			ingresos += s.Total()
			minutos += s.DuracionMinutos
		}
		if len(servicios) > 0 {
			stats.AvgServicioValor = ingresos / float64(len(servicios))
			stats.AvgDuracionMin = float64(minutos) / float64(len(servicios))
		}
	}

	return stats, nil
}

// GetCierreDiario builds the end-of-day closing report: every finalized
// session of the day with its recomputed total, grouped revenue by payment
// method, and a reference number for the printed copy.
func (rc *ReportController) GetCierreDiario(c *gin.Context) {
	now := time.Now()
	inicio := utils.BeginningOfDay(now)

	servicios, err := rc.finalizedInRange(inicio, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build daily closing")
		return
	}

	porMetodo := make(map[string]float64)
	var total float64
	for _, s := range servicios {
		t := s.Total()
		total += t
		metodo := s.MetodoPago
		if metodo == "" {
			metodo = "Efectivo"
		}
		porMetodo[metodo] += t
	}

	c.JSON(http.StatusOK, gin.H{
		"referencia":  "CIERRE-" + now.Format("20060102") + "-" + utils.GenerateRandomString(6),
		"fecha":       now.Format("2006-01-02"),
		"servicios":   servicios,
		"total":       total,
		"porMetodo":   porMetodo,
		"numCerrados": len(servicios),
	})
}
