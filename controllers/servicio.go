package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"venueops-backend/models"
	"venueops-backend/services"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ServicioController exposes the session ledger over HTTP.
type ServicioController struct {
	Ledger *services.LedgerService
	Clock  *services.ClockService
}

func NewServicioController(ledger *services.LedgerService, clock *services.ClockService) *ServicioController {
	return &ServicioController{Ledger: ledger, Clock: clock}
}

// respondServiceError maps the ledger error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	var validation *services.ValidationError
	var notFound *services.NotFoundError
	var upstream *services.UpstreamError

	switch {
	case errors.As(err, &conflict):
		utils.RespondWithError(c, http.StatusConflict, conflict.Reason)
	case errors.As(err, &validation):
		utils.RespondWithError(c, http.StatusBadRequest, validation.Reason)
	case errors.As(err, &notFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &upstream):
		utils.RespondWithError(c, http.StatusInternalServerError, "No se pudo guardar — intenta de nuevo")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Error interno")
	}
}

type StartServicioInput struct {
	ModeloEmail     string  `json:"modeloEmail" binding:"required,email"`
	ModeloNombre    string  `json:"modeloNombre"`
	ClienteNombre   string  `json:"clienteNombre"`
	ClienteTelefono string  `json:"clienteTelefono"`
	TipoUbicacion   string  `json:"tipoUbicacion" binding:"required,oneof=Sede Domicilio"`
	Habitacion      string  `json:"habitacion"`
	TiempoServicio  string  `json:"tiempoServicio" binding:"required"`
	CostoBase       float64 `json:"costoBase" binding:"min=0"`
	MetodoPago      string  `json:"metodoPago"`
	Comprobante     string  `json:"comprobante"`
}

// StartServicio opens a new timed service.
func (sc *ServicioController) StartServicio(c *gin.Context) {
	var input StartServicioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ClienteTelefono != "" && !utils.ValidatePhone(input.ClienteTelefono) {
		utils.RespondWithError(c, http.StatusBadRequest, "Teléfono del cliente inválido")
		return
	}

	servicio, err := sc.Ledger.StartSession(c.Request.Context(), services.StartServiceInput{
		ModeloEmail:     input.ModeloEmail,
		ModeloNombre:    input.ModeloNombre,
		ClienteNombre:   input.ClienteNombre,
		ClienteTelefono: input.ClienteTelefono,
		TipoUbicacion:   input.TipoUbicacion,
		Habitacion:      input.Habitacion,
		TiempoServicio:  input.TiempoServicio,
		CostoBase:       input.CostoBase,
		MetodoPago:      input.MetodoPago,
		Comprobante:     input.Comprobante,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sc.Clock.Refresh()
	c.JSON(http.StatusCreated, servicio)
}

// GetServicios lists sessions, optionally filtered by ?estado=activo|finalizado.
func (sc *ServicioController) GetServicios(c *gin.Context) {
	estado := c.Query("estado")
	if estado != "" && estado != models.EstadoActivo && estado != models.EstadoFinalizado {
		utils.RespondWithError(c, http.StatusBadRequest, "Estado inválido: "+estado)
		return
	}

	servicios, err := sc.Ledger.ListSessions(c.Request.Context(), estado)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, servicios)
}

// GetServiciosActivos returns active sessions with their live countdown.
func (sc *ServicioController) GetServiciosActivos(c *gin.Context) {
	servicios, err := sc.Ledger.ListSessions(c.Request.Context(), models.EstadoActivo)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	type activo struct {
		models.Servicio
		TiempoRestante int     `json:"tiempoRestante"`
		TiempoNegativo int     `json:"tiempoNegativo"`
		Total          float64 `json:"total"`
	}
	out := make([]activo, 0, len(servicios))
	for _, s := range servicios {
		out = append(out, activo{
			Servicio:       s,
			TiempoRestante: s.TiempoRestante(now),
			TiempoNegativo: s.TiempoNegativo(now),
			Total:          s.Total(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetServicio returns one session with ledgers, countdown and total.
func (sc *ServicioController) GetServicio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	servicio, err := sc.Ledger.GetSession(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"servicio":       servicio,
		"tiempoRestante": servicio.TiempoRestante(now),
		"tiempoNegativo": servicio.TiempoNegativo(now),
		"total":          servicio.Total(),
	})
}

type ExtensionInput struct {
	Duracion    string `json:"duracion" binding:"required"`
	MetodoPago  string `json:"metodoPago"`
	Comprobante string `json:"comprobante"`
}

// AddExtension purchases more time for an active session.
func (sc *ServicioController) AddExtension(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	var input ExtensionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	servicio, err := sc.Ledger.AddTimeExtension(c.Request.Context(), id, input.Duracion, input.MetodoPago, input.Comprobante)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sc.Clock.Refresh()
	c.JSON(http.StatusOK, servicio)
}

type AdicionalInput struct {
	Descripcion string  `json:"descripcion" binding:"required"`
	Costo       float64 `json:"costo" binding:"min=0"`
	MetodoPago  string  `json:"metodoPago"`
	Comprobante string  `json:"comprobante"`
}

// AddAdicional appends a free-form extra charge.
func (sc *ServicioController) AddAdicional(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	var input AdicionalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	servicio, err := sc.Ledger.AddAddOn(c.Request.Context(), id, input.Descripcion, input.Costo, input.MetodoPago, input.Comprobante)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, servicio)
}

type ConsumoDetalleInput struct {
	Descripcion string  `json:"descripcion" binding:"required"`
	Costo       float64 `json:"costo" binding:"min=0"`
	Cantidad    int     `json:"cantidad" binding:"min=1"`
}

// AddConsumoDetalle appends an itemized consumption entry.
func (sc *ServicioController) AddConsumoDetalle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	var input ConsumoDetalleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	servicio, err := sc.Ledger.AddDetailedConsumption(c.Request.Context(), id, input.Descripcion, input.Costo, input.Cantidad)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, servicio)
}

type ConsumoBoutiqueInput struct {
	Items []services.ConsumoItem `json:"items" binding:"required,min=1"`
}

// AddConsumoBoutique charges boutique products to the session at the
// in-service price. Returns applied and skipped items.
func (sc *ServicioController) AddConsumoBoutique(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	var input ConsumoBoutiqueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	resumen, err := sc.Ledger.RecordBoutiqueConsumption(c.Request.Context(), id, input.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resumen)
}

type FinalizarInput struct {
	NotasCierre string `json:"notasCierre"`
}

// FinalizarServicio closes an active session for good.
func (sc *ServicioController) FinalizarServicio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	var input FinalizarInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	servicio, err := sc.Ledger.FinalizeSession(c.Request.Context(), id, input.NotasCierre)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sc.Clock.Refresh()
	c.JSON(http.StatusOK, gin.H{
		"servicio": servicio,
		"total":    servicio.Total(),
	})
}

// GetTotal recomputes the running total of a session.
func (sc *ServicioController) GetTotal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "ID de servicio inválido")
		return
	}

	servicio, err := sc.Ledger.GetSession(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": servicio.Total()})
}
