package controllers

import (
	"errors"
	"net/http"
	"time"

	"venueops-backend/config"
	"venueops-backend/models"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateModeloInput struct {
	Email           string     `json:"email" binding:"required,email"`
	Nombre          string     `json:"nombre" binding:"required"`
	Telefono        string     `json:"telefono"`
	NombreArtistico string     `json:"nombreArtistico"`
	Habitacion      string     `json:"habitacion"`
	Foto            string     `json:"foto"`
	FechaIngreso    *time.Time `json:"fechaIngreso"`
}

type UpdateModeloInput struct {
	Nombre          *string `json:"nombre"`
	Telefono        *string `json:"telefono"`
	NombreArtistico *string `json:"nombreArtistico"`
	Habitacion      *string `json:"habitacion"`
	Foto            *string `json:"foto"`
	Activa          *bool   `json:"activa"`
}

// CreateModelo adds a roster entry.
func CreateModelo(c *gin.Context) {
	var input CreateModeloInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Telefono != "" && !utils.ValidatePhone(input.Telefono) {
		utils.RespondWithError(c, http.StatusBadRequest, "Teléfono inválido")
		return
	}

	var existing models.Modelo
	result := config.DB.Where("email = ?", input.Email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Ya existe una modelo con ese email")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	fechaIngreso := input.FechaIngreso
	if fechaIngreso == nil {
		now := time.Now()
		fechaIngreso = &now
	}

	modelo := models.Modelo{
		Email:           input.Email,
		Nombre:          input.Nombre,
		Telefono:        input.Telefono,
		NombreArtistico: input.NombreArtistico,
		Habitacion:      input.Habitacion,
		Foto:            input.Foto,
		Activa:          true,
		FechaIngreso:    fechaIngreso,
	}

	if err := config.DB.Create(&modelo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create model")
		return
	}

	c.JSON(http.StatusCreated, modelo)
}

// GetModelos lists the roster.
func GetModelos(c *gin.Context) {
	var modelos []models.Modelo
	q := config.DB.Order("nombre")
	if c.Query("activa") == "true" {
		q = q.Where("activa = ?", true)
	}
	if err := q.Find(&modelos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve models")
		return
	}
	c.JSON(http.StatusOK, modelos)
}

// GetModelo retrieves one roster entry.
func GetModelo(c *gin.Context) {
	modeloUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid model ID format")
		return
	}

	var modelo models.Modelo
	if err := config.DB.First(&modelo, "id = ?", modeloUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Model not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, modelo)
}

// UpdateModelo updates a roster entry.
func UpdateModelo(c *gin.Context) {
	modeloUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid model ID format")
		return
	}

	var input UpdateModeloInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var modelo models.Modelo
	if err := config.DB.First(&modelo, "id = ?", modeloUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Model not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Telefono != nil && *input.Telefono != "" && !utils.ValidatePhone(*input.Telefono) {
		utils.RespondWithError(c, http.StatusBadRequest, "Teléfono inválido")
		return
	}

	if input.Nombre != nil {
		modelo.Nombre = *input.Nombre
	}
	if input.Telefono != nil {
		modelo.Telefono = *input.Telefono
	}
	if input.NombreArtistico != nil {
		modelo.NombreArtistico = *input.NombreArtistico
	}
	if input.Habitacion != nil {
		modelo.Habitacion = *input.Habitacion
	}
	if input.Foto != nil {
		modelo.Foto = *input.Foto
	}
	if input.Activa != nil {
		modelo.Activa = *input.Activa
	}

	if err := config.DB.Save(&modelo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update model")
		return
	}

	c.JSON(http.StatusOK, modelo)
}

// DeleteModelo soft deletes a roster entry.
func DeleteModelo(c *gin.Context) {
	modeloUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid model ID format")
		return
	}

	result := config.DB.Where("id = ?", modeloUUID).Delete(&models.Modelo{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete model")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Model not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Model deleted successfully"})
}
