package services

import (
	"context"
	"errors"
	"time"

	"venueops-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// LedgerService owns the lifecycle of timed services: start, mid-session
// extensions/add-ons/boutique consumption, and finalization. Every mutation
// goes through the store; nothing is trusted to in-memory state.
type LedgerService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLedgerService(db *gorm.DB, log zerolog.Logger) *LedgerService {
	return &LedgerService{db: db, log: log.With().Str("service", "ledger").Logger()}
}

// StartServiceInput carries everything the reception desk captures when a
// service begins.
type StartServiceInput struct {
	ModeloEmail     string
	ModeloNombre    string
	ClienteNombre   string
	ClienteTelefono string
	TipoUbicacion   string
	Habitacion      string
	TiempoServicio  string
	CostoBase       float64
	MetodoPago      string
	Comprobante     string
}

// StartSession opens a new active service for a model. A model can only run
// one active service at a time.
func (s *LedgerService) StartSession(ctx context.Context, input StartServiceInput) (*models.Servicio, error) {
	if input.ModeloEmail == "" {
		return nil, &ValidationError{Reason: "email de la modelo requerido"}
	}
	duracion, ok := models.DuracionPorCategoria[input.TiempoServicio]
	if !ok {
		return nil, &ValidationError{Reason: "tiempo de servicio inválido: " + input.TiempoServicio}
	}
	if input.TipoUbicacion != models.UbicacionSede && input.TipoUbicacion != models.UbicacionDomicilio {
		return nil, &ValidationError{Reason: "tipo de ubicación inválido: " + input.TipoUbicacion}
	}
	if input.TipoUbicacion == models.UbicacionSede && input.Habitacion == "" {
		return nil, &ValidationError{Reason: "habitación requerida para servicios en sede"}
	}
	if input.CostoBase < 0 {
		return nil, &ValidationError{Reason: "el costo base no puede ser negativo"}
	}
	if input.MetodoPago != "" && !models.MetodoPagoValido(input.MetodoPago) {
		return nil, &ValidationError{Reason: "método de pago inválido: " + input.MetodoPago}
	}
	if models.RequiereComprobante(input.MetodoPago) && input.Comprobante == "" {
		return nil, &ValidationError{Reason: "comprobante de pago requerido para pagos distintos a efectivo"}
	}

	// Single active session per model
	var existing models.Servicio
	err := s.db.WithContext(ctx).
		Where("modelo_email = ? AND estado = ?", input.ModeloEmail, models.EstadoActivo).
		First(&existing).Error
	if err == nil {
		return nil, &ConflictError{Reason: "la modelo ya tiene un servicio activo"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &UpstreamError{Op: "buscar servicio activo", Err: err}
	}

	servicio := models.Servicio{
		ModeloEmail:     input.ModeloEmail,
		ModeloNombre:    input.ModeloNombre,
		ClienteNombre:   input.ClienteNombre,
		ClienteTelefono: input.ClienteTelefono,
		TipoUbicacion:   input.TipoUbicacion,
		Habitacion:      input.Habitacion,
		TiempoServicio:  input.TiempoServicio,
		DuracionMinutos: duracion,
		HoraInicio:      time.Now(),
		CostoBase:       input.CostoBase,
		MetodoPago:      input.MetodoPago,
		ComprobantePago: input.Comprobante,
		Estado:          models.EstadoActivo,
	}

	if err := s.db.WithContext(ctx).Create(&servicio).Error; err != nil {
		return nil, &UpstreamError{Op: "crear servicio", Err: err}
	}

	s.log.Info().
		Str("servicio", servicio.ID.String()).
		Str("modelo", servicio.ModeloEmail).
		Str("tiempo", servicio.TiempoServicio).
		Msg("servicio iniciado")

	return &servicio, nil
}

// GetSession loads a session with all three ledgers.
func (s *LedgerService) GetSession(ctx context.Context, id uuid.UUID) (*models.Servicio, error) {
	var servicio models.Servicio
	err := s.db.WithContext(ctx).
		Preload("Extensiones").
		Preload("Adicionales").
		Preload("Consumos").
		First(&servicio, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "servicio", ID: id.String()}
		}
		return nil, &UpstreamError{Op: "cargar servicio", Err: err}
	}
	return &servicio, nil
}

// ActiveSessionForModel returns the model's active session, or nil when she
// has none.
func (s *LedgerService) ActiveSessionForModel(ctx context.Context, email string) (*models.Servicio, error) {
	var servicio models.Servicio
	err := s.db.WithContext(ctx).
		Preload("Extensiones").
		Preload("Adicionales").
		Preload("Consumos").
		Where("modelo_email = ? AND estado = ?", email, models.EstadoActivo).
		First(&servicio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &UpstreamError{Op: "buscar servicio activo", Err: err}
	}
	return &servicio, nil
}

// ListSessions returns sessions filtered by state ("" for all), newest first.
func (s *LedgerService) ListSessions(ctx context.Context, estado string) ([]models.Servicio, error) {
	q := s.db.WithContext(ctx).
		Preload("Extensiones").
		Preload("Adicionales").
		Preload("Consumos").
		Order("hora_inicio DESC")
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	var servicios []models.Servicio
	if err := q.Find(&servicios).Error; err != nil {
		return nil, &UpstreamError{Op: "listar servicios", Err: err}
	}
	return servicios, nil
}

// AddTimeExtension appends a purchased time extension and grows the session
// duration by the tariff's minutes. There is no cap on how many extensions a
// session can accumulate.
func (s *LedgerService) AddTimeExtension(ctx context.Context, id uuid.UUID, etiqueta, metodoPago, comprobante string) (*models.Servicio, error) {
	tarifa, ok := models.TarifasExtension[etiqueta]
	if !ok {
		return nil, &ValidationError{Reason: "extensión de tiempo inválida: " + etiqueta}
	}
	if metodoPago != "" && !models.MetodoPagoValido(metodoPago) {
		return nil, &ValidationError{Reason: "método de pago inválido: " + metodoPago}
	}
	if models.RequiereComprobante(metodoPago) && comprobante == "" {
		return nil, &ValidationError{Reason: "comprobante de pago requerido para pagos distintos a efectivo"}
	}

	servicio, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	extension := models.ExtensionTiempo{
		ServicioID:  servicio.ID,
		Duracion:    etiqueta,
		Minutos:     tarifa.Minutos,
		Costo:       tarifa.Costo,
		MetodoPago:  metodoPago,
		Comprobante: comprobante,
		RegistradoA: time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&extension).Error; err != nil {
			return err
		}
		return tx.Model(&models.Servicio{}).
			Where("id = ?", servicio.ID).
			Update("duracion_minutos", gorm.Expr("duracion_minutos + ?", tarifa.Minutos)).Error
	})
	if err != nil {
		return nil, &UpstreamError{Op: "registrar extensión", Err: err}
	}

	s.log.Info().
		Str("servicio", servicio.ID.String()).
		Str("extension", etiqueta).
		Float64("costo", tarifa.Costo).
		Msg("extensión de tiempo registrada")

	return s.GetSession(ctx, servicio.ID)
}

// AddAddOn appends a free-form extra charge to the session.
func (s *LedgerService) AddAddOn(ctx context.Context, id uuid.UUID, descripcion string, costo float64, metodoPago, comprobante string) (*models.Servicio, error) {
	if descripcion == "" {
		return nil, &ValidationError{Reason: "descripción requerida"}
	}
	if costo < 0 {
		return nil, &ValidationError{Reason: "el costo no puede ser negativo"}
	}
	if metodoPago != "" && !models.MetodoPagoValido(metodoPago) {
		return nil, &ValidationError{Reason: "método de pago inválido: " + metodoPago}
	}
	if models.RequiereComprobante(metodoPago) && comprobante == "" {
		return nil, &ValidationError{Reason: "comprobante de pago requerido para pagos distintos a efectivo"}
	}

	servicio, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	adicional := models.Adicional{
		ServicioID:  servicio.ID,
		Descripcion: descripcion,
		Costo:       costo,
		MetodoPago:  metodoPago,
		Comprobante: comprobante,
		RegistradoA: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&adicional).Error; err != nil {
		return nil, &UpstreamError{Op: "registrar adicional", Err: err}
	}

	return s.GetSession(ctx, servicio.ID)
}

// AddDetailedConsumption appends an itemized consumption entry (unit cost and
// quantity kept separate), the alternate shape for off-boutique charges.
func (s *LedgerService) AddDetailedConsumption(ctx context.Context, id uuid.UUID, descripcion string, costoUnitario float64, cantidad int) (*models.Servicio, error) {
	if descripcion == "" {
		return nil, &ValidationError{Reason: "descripción requerida"}
	}
	if costoUnitario < 0 {
		return nil, &ValidationError{Reason: "el costo no puede ser negativo"}
	}
	if cantidad <= 0 {
		return nil, &ValidationError{Reason: "la cantidad debe ser positiva"}
	}

	servicio, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	consumo := models.ConsumoDetalle{
		ServicioID:  servicio.ID,
		Descripcion: descripcion,
		Costo:       costoUnitario,
		Cantidad:    cantidad,
		RegistradoA: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&consumo).Error; err != nil {
		return nil, &UpstreamError{Op: "registrar consumo", Err: err}
	}

	return s.GetSession(ctx, servicio.ID)
}

// ConsumoItem is one requested boutique item.
type ConsumoItem struct {
	ProductoID uuid.UUID `json:"productoId" binding:"required"`
	Cantidad   int       `json:"cantidad" binding:"min=1"`
}

// ConsumoOmitido reports an item that could not be applied.
type ConsumoOmitido struct {
	ProductoID uuid.UUID `json:"productoId"`
	Motivo     string    `json:"motivo"`
}

// ConsumoResumen is the per-item outcome of a boutique purchase.
type ConsumoResumen struct {
	Aplicados []models.Adicional `json:"aplicados"`
	Omitidos  []ConsumoOmitido   `json:"omitidos"`
}

// RecordBoutiqueConsumption charges boutique products to an active session at
// the in-service price, decrementing stock per item. Items are applied one by
// one: a failed item is skipped and reported, already-applied items stay
// applied. There is no batch transaction, matching the till's behavior.
func (s *LedgerService) RecordBoutiqueConsumption(ctx context.Context, id uuid.UUID, items []ConsumoItem) (*ConsumoResumen, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Reason: "sin productos para registrar"}
	}

	servicio, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	resumen := &ConsumoResumen{}
	for _, item := range items {
		adicional, motivo := s.applyConsumo(ctx, servicio, item)
		if motivo != "" {
			resumen.Omitidos = append(resumen.Omitidos, ConsumoOmitido{ProductoID: item.ProductoID, Motivo: motivo})
			continue
		}
		resumen.Aplicados = append(resumen.Aplicados, *adicional)
	}

	if len(resumen.Aplicados) == 0 {
		return resumen, &ValidationError{Reason: resumen.Omitidos[0].Motivo}
	}
	return resumen, nil
}

func (s *LedgerService) applyConsumo(ctx context.Context, servicio *models.Servicio, item ConsumoItem) (*models.Adicional, string) {
	if item.Cantidad <= 0 {
		return nil, "la cantidad debe ser positiva"
	}

	var producto models.Producto
	if err := s.db.WithContext(ctx).First(&producto, "id = ?", item.ProductoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "producto no encontrado"
		}
		return nil, "error consultando el producto"
	}

	// Live stock check; the decrement below is a plain counter update, so two
	// concurrent purchases of the same product can both pass this check.
	if producto.Stock < item.Cantidad {
		return nil, "stock insuficiente de " + producto.Nombre
	}

	adicional := models.Adicional{
		ServicioID:  servicio.ID,
		Descripcion: models.DescripcionConsumo(producto.Nombre, item.Cantidad),
		Costo:       producto.PrecioServicio * float64(item.Cantidad),
		MetodoPago:  "Efectivo",
		RegistradoA: time.Now(),
	}
	movimiento := models.MovimientoStock{
		ProductoID:    producto.ID,
		Tipo:          models.MovimientoConsumo,
		Cantidad:      -item.Cantidad,
		StockAnterior: producto.Stock,
		StockNuevo:    producto.Stock - item.Cantidad,
		Motivo:        "consumo en servicio",
		ServicioID:    &servicio.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Producto{}).
			Where("id = ?", producto.ID).
			Update("stock", gorm.Expr("stock - ?", item.Cantidad)).Error; err != nil {
			return err
		}
		if err := tx.Create(&movimiento).Error; err != nil {
			return err
		}
		return tx.Create(&adicional).Error
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("servicio", servicio.ID.String()).
			Str("producto", producto.ID.String()).
			Msg("consumo de boutique falló")
		return nil, "no se pudo registrar el consumo de " + producto.Nombre
	}

	return &adicional, ""
}

// FinalizeSession closes an active session. The transition is one-way: once
// finalized, no ledger operation accepts the session again.
func (s *LedgerService) FinalizeSession(ctx context.Context, id uuid.UUID, notasCierre string) (*models.Servicio, error) {
	servicio, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"estado":       models.EstadoFinalizado,
		"hora_fin":     now,
		"notas_cierre": notasCierre,
	}
	if err := s.db.WithContext(ctx).Model(&models.Servicio{}).
		Where("id = ?", servicio.ID).
		Updates(updates).Error; err != nil {
		return nil, &UpstreamError{Op: "finalizar servicio", Err: err}
	}

	s.log.Info().
		Str("servicio", servicio.ID.String()).
		Str("modelo", servicio.ModeloEmail).
		Msg("servicio finalizado")

	return s.GetSession(ctx, servicio.ID)
}

// loadActive fetches a session and rejects anything not in the activo state.
func (s *LedgerService) loadActive(ctx context.Context, id uuid.UUID) (*models.Servicio, error) {
	var servicio models.Servicio
	err := s.db.WithContext(ctx).First(&servicio, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "servicio", ID: id.String()}
		}
		return nil, &UpstreamError{Op: "cargar servicio", Err: err}
	}
	if servicio.Estado != models.EstadoActivo {
		return nil, &ValidationError{Reason: "el servicio ya está finalizado"}
	}
	return &servicio, nil
}
