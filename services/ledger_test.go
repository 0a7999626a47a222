package services

import (
	"context"
	"errors"
	"testing"

	"venueops-backend/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Modelo{},
		&models.Producto{},
		&models.MovimientoStock{},
		&models.Servicio{},
		&models.ExtensionTiempo{},
		&models.Adicional{},
		&models.ConsumoDetalle{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLedger(t *testing.T) (*LedgerService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewLedgerService(db, zerolog.Nop()), db
}

func startTestSession(t *testing.T, ledger *LedgerService) *models.Servicio {
	t.Helper()
	servicio, err := ledger.StartSession(context.Background(), StartServiceInput{
		ModeloEmail:    "valentina@venue.co",
		ModeloNombre:   "Valentina",
		TipoUbicacion:  models.UbicacionSede,
		Habitacion:     "3",
		TiempoServicio: "1 hora",
		CostoBase:      150000,
		MetodoPago:     "Efectivo",
	})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return servicio
}

func TestStartSession(t *testing.T) {
	ledger, _ := newTestLedger(t)
	servicio := startTestSession(t, ledger)

	if servicio.Estado != models.EstadoActivo {
		t.Fatalf("expected estado activo, got %q", servicio.Estado)
	}
	if servicio.DuracionMinutos != 60 {
		t.Fatalf("expected 60 minutes for '1 hora', got %d", servicio.DuracionMinutos)
	}
	if servicio.HoraInicio.IsZero() {
		t.Fatalf("expected hora inicio to be set")
	}
	if servicio.HoraFin != nil {
		t.Fatalf("expected no hora fin on a fresh session")
	}
	if got := servicio.Total(); got != 150000 {
		t.Fatalf("expected total 150000 right after start, got %v", got)
	}
}

func TestStartSessionRejectsSecondActive(t *testing.T) {
	ledger, _ := newTestLedger(t)
	startTestSession(t, ledger)

	_, err := ledger.StartSession(context.Background(), StartServiceInput{
		ModeloEmail:    "valentina@venue.co",
		TipoUbicacion:  models.UbicacionDomicilio,
		TiempoServicio: "rato",
		CostoBase:      120000,
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestStartSessionAllowedAfterFinalize(t *testing.T) {
	ledger, _ := newTestLedger(t)
	servicio := startTestSession(t, ledger)

	if _, err := ledger.FinalizeSession(context.Background(), servicio.ID, ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if _, err := ledger.StartSession(context.Background(), StartServiceInput{
		ModeloEmail:    "valentina@venue.co",
		TipoUbicacion:  models.UbicacionSede,
		Habitacion:     "5",
		TiempoServicio: "rato",
		CostoBase:      120000,
	}); err != nil {
		t.Fatalf("expected new session after finalize, got %v", err)
	}
}

func TestStartSessionValidation(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input StartServiceInput
	}{
		{"categoria desconocida", StartServiceInput{
			ModeloEmail: "a@venue.co", TipoUbicacion: models.UbicacionDomicilio,
			TiempoServicio: "2 horas", CostoBase: 100000,
		}},
		{"sede sin habitacion", StartServiceInput{
			ModeloEmail: "a@venue.co", TipoUbicacion: models.UbicacionSede,
			TiempoServicio: "1 hora", CostoBase: 100000,
		}},
		{"costo negativo", StartServiceInput{
			ModeloEmail: "a@venue.co", TipoUbicacion: models.UbicacionDomicilio,
			TiempoServicio: "1 hora", CostoBase: -1,
		}},
		{"pago digital sin comprobante", StartServiceInput{
			ModeloEmail: "a@venue.co", TipoUbicacion: models.UbicacionDomicilio,
			TiempoServicio: "1 hora", CostoBase: 100000, MetodoPago: "Nequi",
		}},
		{"sin email", StartServiceInput{
			TipoUbicacion: models.UbicacionDomicilio, TiempoServicio: "1 hora", CostoBase: 100000,
		}},
	}
	for _, tc := range cases {
		_, err := ledger.StartSession(ctx, tc.input)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestAddTimeExtension(t *testing.T) {
	ledger, _ := newTestLedger(t)
	servicio := startTestSession(t, ledger)

	actualizado, err := ledger.AddTimeExtension(context.Background(), servicio.ID, "30 minutos", "Efectivo", "")
	if err != nil {
		t.Fatalf("add extension: %v", err)
	}
	if actualizado.DuracionMinutos != 90 {
		t.Fatalf("expected duration 90 after 30m extension, got %d", actualizado.DuracionMinutos)
	}
	if got := actualizado.Total(); got != 230000 {
		t.Fatalf("expected total 230000, got %v", got)
	}

	// No cap: a second extension keeps growing the duration
	actualizado, err = ledger.AddTimeExtension(context.Background(), servicio.ID, "2 horas", "QR", "/uploads/qr.jpg")
	if err != nil {
		t.Fatalf("second extension: %v", err)
	}
	if actualizado.DuracionMinutos != 210 {
		t.Fatalf("expected duration 210, got %d", actualizado.DuracionMinutos)
	}
	if got := actualizado.Total(); got != 510000 {
		t.Fatalf("expected total 510000, got %v", got)
	}
}

func TestAddTimeExtensionValidation(t *testing.T) {
	ledger, _ := newTestLedger(t)
	servicio := startTestSession(t, ledger)
	ctx := context.Background()

	var validation *ValidationError
	if _, err := ledger.AddTimeExtension(ctx, servicio.ID, "45 minutos", "Efectivo", ""); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for unknown label, got %v", err)
	}
	if _, err := ledger.AddTimeExtension(ctx, servicio.ID, "1 hora", "Nequi", ""); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for digital payment without proof, got %v", err)
	}

	var notFound *NotFoundError
	if _, err := ledger.AddTimeExtension(ctx, uuid.New(), "1 hora", "Efectivo", ""); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown session, got %v", err)
	}
}

func TestAddAddOn(t *testing.T) {
	ledger, _ := newTestLedger(t)
	servicio := startTestSession(t, ledger)
	ctx := context.Background()

	actualizado, err := ledger.AddAddOn(ctx, servicio.ID, "Propina", 20000, "Efectivo", "")
	if err != nil {
		t.Fatalf("add add-on: %v", err)
	}
	if got := actualizado.Total(); got != 170000 {
		t.Fatalf("expected total 170000, got %v", got)
	}

	var validation *ValidationError
	if _, err := ledger.AddAddOn(ctx, servicio.ID, "", 5000, "Efectivo", ""); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for empty description, got %v", err)
	}
	if _, err := ledger.AddAddOn(ctx, servicio.ID, "Trago", -5000, "Efectivo", ""); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for negative cost, got %v", err)
	}
}

func TestAddDetailedConsumption(t *testing.T) {
	ledger, _ := newTestLedger(t)
	servicio := startTestSession(t, ledger)

	actualizado, err := ledger.AddDetailedConsumption(context.Background(), servicio.ID, "Champaña", 15000, 2)
	if err != nil {
		t.Fatalf("add detailed consumption: %v", err)
	}
	if got := actualizado.Total(); got != 180000 {
		t.Fatalf("expected total 180000 (150000 + 15000*2), got %v", got)
	}
}

func seedProducto(t *testing.T, db *gorm.DB, nombre string, precioServicio float64, stock int) *models.Producto {
	t.Helper()
	producto := &models.Producto{
		Nombre:         nombre,
		PrecioRegular:  precioServicio * 0.8,
		PrecioServicio: precioServicio,
		Stock:          stock,
		Activo:         true,
	}
	if err := db.Create(producto).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return producto
}

func TestRecordBoutiqueConsumption(t *testing.T) {
	ledger, db := newTestLedger(t)
	servicio := startTestSession(t, ledger)
	producto := seedProducto(t, db, "Champaña", 15000, 10)

	resumen, err := ledger.RecordBoutiqueConsumption(context.Background(), servicio.ID, []ConsumoItem{
		{ProductoID: producto.ID, Cantidad: 2},
	})
	if err != nil {
		t.Fatalf("record consumption: %v", err)
	}
	if len(resumen.Aplicados) != 1 || len(resumen.Omitidos) != 0 {
		t.Fatalf("expected 1 applied / 0 skipped, got %d/%d", len(resumen.Aplicados), len(resumen.Omitidos))
	}
	if resumen.Aplicados[0].Descripcion != "Champaña (x2)" {
		t.Fatalf("unexpected description %q", resumen.Aplicados[0].Descripcion)
	}
	if resumen.Aplicados[0].Costo != 30000 {
		t.Fatalf("expected cost 30000 at the in-service price, got %v", resumen.Aplicados[0].Costo)
	}

	var recargado models.Producto
	if err := db.First(&recargado, "id = ?", producto.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if recargado.Stock != 8 {
		t.Fatalf("expected stock 8 after decrement, got %d", recargado.Stock)
	}

	var movimientos []models.MovimientoStock
	if err := db.Where("producto_id = ?", producto.ID).Find(&movimientos).Error; err != nil {
		t.Fatalf("load movements: %v", err)
	}
	if len(movimientos) != 1 || movimientos[0].Cantidad != -2 || movimientos[0].StockNuevo != 8 {
		t.Fatalf("unexpected stock movement: %+v", movimientos)
	}

	actualizado, err := ledger.GetSession(context.Background(), servicio.ID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if got := actualizado.Total(); got != 180000 {
		t.Fatalf("expected total 180000 after boutique purchase, got %v", got)
	}
}

func TestRecordBoutiqueConsumptionSkipsFailedItems(t *testing.T) {
	ledger, db := newTestLedger(t)
	servicio := startTestSession(t, ledger)
	champana := seedProducto(t, db, "Champaña", 15000, 10)
	cigarrillos := seedProducto(t, db, "Cigarrillos", 8000, 1)

	resumen, err := ledger.RecordBoutiqueConsumption(context.Background(), servicio.ID, []ConsumoItem{
		{ProductoID: champana.ID, Cantidad: 1},
		{ProductoID: cigarrillos.ID, Cantidad: 5}, // over stock
		{ProductoID: uuid.New(), Cantidad: 1},     // unknown product
	})
	if err != nil {
		t.Fatalf("expected partial success without error, got %v", err)
	}
	if len(resumen.Aplicados) != 1 {
		t.Fatalf("expected 1 applied item, got %d", len(resumen.Aplicados))
	}
	if len(resumen.Omitidos) != 2 {
		t.Fatalf("expected 2 skipped items, got %d", len(resumen.Omitidos))
	}

	// The applied decrement stays applied even though later items failed
	var recargado models.Producto
	if err := db.First(&recargado, "id = ?", champana.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if recargado.Stock != 9 {
		t.Fatalf("expected stock 9, got %d", recargado.Stock)
	}
}

func TestRecordBoutiqueConsumptionAllFailed(t *testing.T) {
	ledger, db := newTestLedger(t)
	servicio := startTestSession(t, ledger)
	cigarrillos := seedProducto(t, db, "Cigarrillos", 8000, 1)

	_, err := ledger.RecordBoutiqueConsumption(context.Background(), servicio.ID, []ConsumoItem{
		{ProductoID: cigarrillos.ID, Cantidad: 5},
	})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError when nothing could be applied, got %v", err)
	}
}

func TestFinalizeSessionIsTerminal(t *testing.T) {
	ledger, db := newTestLedger(t)
	servicio := startTestSession(t, ledger)
	producto := seedProducto(t, db, "Champaña", 15000, 10)
	ctx := context.Background()

	finalizado, err := ledger.FinalizeSession(ctx, servicio.ID, "cliente satisfecho")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if finalizado.Estado != models.EstadoFinalizado {
		t.Fatalf("expected estado finalizado, got %q", finalizado.Estado)
	}
	if finalizado.HoraFin == nil {
		t.Fatalf("expected hora fin to be set")
	}
	if finalizado.NotasCierre != "cliente satisfecho" {
		t.Fatalf("unexpected closing notes %q", finalizado.NotasCierre)
	}

	var validation *ValidationError
	if _, err := ledger.AddAddOn(ctx, servicio.ID, "Propina", 10000, "Efectivo", ""); !errors.As(err, &validation) {
		t.Fatalf("expected add-on after finalize to fail, got %v", err)
	}
	if _, err := ledger.AddTimeExtension(ctx, servicio.ID, "1 hora", "Efectivo", ""); !errors.As(err, &validation) {
		t.Fatalf("expected extension after finalize to fail, got %v", err)
	}
	if _, err := ledger.RecordBoutiqueConsumption(ctx, servicio.ID, []ConsumoItem{{ProductoID: producto.ID, Cantidad: 1}}); !errors.As(err, &validation) {
		t.Fatalf("expected consumption after finalize to fail, got %v", err)
	}
	if _, err := ledger.FinalizeSession(ctx, servicio.ID, "otra vez"); !errors.As(err, &validation) {
		t.Fatalf("expected second finalize to fail, got %v", err)
	}
}

func TestActiveSessionForModel(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	activo, err := ledger.ActiveSessionForModel(ctx, "valentina@venue.co")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if activo != nil {
		t.Fatalf("expected no active session, got %v", activo.ID)
	}

	servicio := startTestSession(t, ledger)
	activo, err = ledger.ActiveSessionForModel(ctx, "valentina@venue.co")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if activo == nil || activo.ID != servicio.ID {
		t.Fatalf("expected the started session to be active")
	}

	if _, err := ledger.FinalizeSession(ctx, servicio.ID, ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	activo, err = ledger.ActiveSessionForModel(ctx, "valentina@venue.co")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if activo != nil {
		t.Fatalf("expected no active session after finalize")
	}
}
