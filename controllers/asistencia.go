package controllers

import (
	"errors"
	"net/http"
	"time"

	"venueops-backend/config"
	"venueops-backend/models"
	"venueops-backend/services"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AsistenciaController handles shift attendance with selfie-based approval.
type AsistenciaController struct {
	Storage *services.StorageService
}

func NewAsistenciaController(storage *services.StorageService) *AsistenciaController {
	return &AsistenciaController{Storage: storage}
}

// CheckIn registers a shift entry: modeloEmail field plus a selfie file. The
// entry waits in pendiente until an admin reviews the selfie.
func (ac *AsistenciaController) CheckIn(c *gin.Context) {
	modeloEmail := c.PostForm("modeloEmail")
	if modeloEmail == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "modeloEmail requerido")
		return
	}

	var modelo models.Modelo
	if err := config.DB.First(&modelo, "email = ? AND activa = ?", modeloEmail, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Modelo no encontrada")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// One open check-in per model per shift
	var abierta models.Asistencia
	err := config.DB.Where("modelo_email = ? AND hora_salida IS NULL AND estado <> ?",
		modeloEmail, models.AsistenciaRechazada).First(&abierta).Error
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Ya existe una entrada abierta para esta modelo")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	file, err := c.FormFile("selfie")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Selfie requerida")
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No se pudo leer la selfie")
		return
	}
	defer src.Close()

	ref, err := ac.Storage.SaveProof(file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	asistencia := models.Asistencia{
		ModeloEmail: modeloEmail,
		HoraEntrada: time.Now(),
		Selfie:      ref,
		Estado:      models.AsistenciaPendiente,
	}
	if err := config.DB.Create(&asistencia).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register check-in")
		return
	}

	c.JSON(http.StatusCreated, asistencia)
}

// GetAsistencias lists attendance entries, optionally by state or just today.
func (ac *AsistenciaController) GetAsistencias(c *gin.Context) {
	q := config.DB.Order("hora_entrada DESC")
	if estado := c.Query("estado"); estado != "" {
		q = q.Where("estado = ?", estado)
	}
	if c.Query("hoy") == "true" {
		q = q.Where("hora_entrada >= ?", utils.BeginningOfDay(time.Now()))
	}

	var asistencias []models.Asistencia
	if err := q.Find(&asistencias).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve attendance")
		return
	}
	c.JSON(http.StatusOK, asistencias)
}

// Aprobar approves a pending check-in.
func (ac *AsistenciaController) Aprobar(c *gin.Context) {
	ac.revisar(c, models.AsistenciaAprobada, "")
}

type RechazoInput struct {
	Motivo string `json:"motivo" binding:"required"`
}

// Rechazar rejects a pending check-in with a reason.
func (ac *AsistenciaController) Rechazar(c *gin.Context) {
	var input RechazoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	ac.revisar(c, models.AsistenciaRechazada, input.Motivo)
}

// revisar moves a pendiente entry to its final review state, exactly once.
func (ac *AsistenciaController) revisar(c *gin.Context, estado, motivo string) {
	asistenciaUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid attendance ID format")
		return
	}

	var asistencia models.Asistencia
	if err := config.DB.First(&asistencia, "id = ?", asistenciaUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Attendance entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if asistencia.Estado != models.AsistenciaPendiente {
		utils.RespondWithError(c, http.StatusBadRequest, "La entrada ya fue revisada")
		return
	}

	revisor := ""
	if userID, exists := c.Get("userId"); exists {
		if s, ok := userID.(string); ok {
			revisor = s
		}
	}

	asistencia.Estado = estado
	asistencia.RevisadaPor = revisor
	asistencia.MotivoRechazo = motivo

	if err := config.DB.Save(&asistencia).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update attendance")
		return
	}

	c.JSON(http.StatusOK, asistencia)
}

// CheckOut stamps the exit time on an approved open entry.
func (ac *AsistenciaController) CheckOut(c *gin.Context) {
	asistenciaUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid attendance ID format")
		return
	}

	var asistencia models.Asistencia
	if err := config.DB.First(&asistencia, "id = ?", asistenciaUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Attendance entry not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if asistencia.Estado != models.AsistenciaAprobada {
		utils.RespondWithError(c, http.StatusBadRequest, "Solo se puede marcar salida en entradas aprobadas")
		return
	}
	if asistencia.HoraSalida != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "La salida ya fue registrada")
		return
	}

	now := time.Now()
	asistencia.HoraSalida = &now
	if err := config.DB.Save(&asistencia).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to register check-out")
		return
	}

	c.JSON(http.StatusOK, asistencia)
}
