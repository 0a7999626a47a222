package controllers

import (
	"net/http"

	"venueops-backend/services"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
)

// ComprobanteController accepts payment-proof uploads and hands back an opaque
// reference the ledger endpoints take as `comprobante`.
type ComprobanteController struct {
	Storage *services.StorageService
}

func NewComprobanteController(storage *services.StorageService) *ComprobanteController {
	return &ComprobanteController{Storage: storage}
}

// Upload stores one proof image (max 5 MB, image/* only).
func (cc *ComprobanteController) Upload(c *gin.Context) {
	file, err := c.FormFile("comprobante")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Archivo de comprobante requerido")
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No se pudo leer el archivo")
		return
	}
	defer src.Close()

	ref, err := cc.Storage.SaveProof(file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comprobante": ref})
}
