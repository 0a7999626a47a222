package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session states
const (
	EstadoActivo     = "activo"
	EstadoFinalizado = "finalizado"
)

// Location kinds
const (
	UbicacionSede      = "Sede"
	UbicacionDomicilio = "Domicilio"
)

// DuracionPorCategoria maps a base duration category to its length in minutes.
var DuracionPorCategoria = map[string]int{
	"30 minutos":   30,
	"1 hora":       60,
	"rato":         45,
	"varias horas": 180,
	"amanecida":    480,
}

// ExtensionTarifa is the fixed price/length of a purchasable time extension.
type ExtensionTarifa struct {
	Minutos int
	Costo   float64
}

// TarifasExtension maps an extension label to its fixed tariff.
var TarifasExtension = map[string]ExtensionTarifa{
	"30 minutos": {Minutos: 30, Costo: 80000},
	"1 hora":     {Minutos: 60, Costo: 150000},
	"2 horas":    {Minutos: 120, Costo: 280000},
}

// Payment methods accepted at the venue. Everything except cash needs a
// payment proof attached.
var MetodosPago = []string{"Efectivo", "QR", "Nequi", "Daviplata", "Datafono", "Convenio", "Tarjeta"}

func MetodoPagoValido(metodo string) bool {
	for _, m := range MetodosPago {
		if m == metodo {
			return true
		}
	}
	return false
}

func RequiereComprobante(metodo string) bool {
	return metodo != "" && metodo != "Efectivo"
}

// Servicio is the unit of billing and time tracking for one model-client
// encounter. Costs accumulate in three append-only child ledgers; the total is
// always recomputed from them, never stored.
type Servicio struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ModeloEmail     string `gorm:"index;not null" json:"modeloEmail"`
	ModeloNombre    string `json:"modeloNombre"`
	ClienteNombre   string `json:"clienteNombre"`
	ClienteTelefono string `json:"clienteTelefono"`

	TipoUbicacion string `gorm:"type:varchar(20);not null" json:"tipoUbicacion"` // Sede | Domicilio
	Habitacion    string `json:"habitacion"`                                     // Sede only

	TiempoServicio  string `gorm:"not null" json:"tiempoServicio"` // base duration category
	DuracionMinutos int    `gorm:"not null" json:"duracionMinutos"`

	HoraInicio time.Time  `gorm:"not null" json:"horaInicio"`
	HoraFin    *time.Time `json:"horaFin"`

	CostoBase       float64 `gorm:"type:decimal(10,2);not null" json:"costoBase"`
	MetodoPago      string  `gorm:"type:varchar(20)" json:"metodoPago"`
	ComprobantePago string  `json:"comprobantePago"`

	Estado        string `gorm:"type:varchar(20);default:'activo';index" json:"estado"`
	NotasCierre   string `json:"notasCierre"`
	AlertaEnviada bool   `gorm:"default:false" json:"alertaEnviada"`

	Extensiones []ExtensionTiempo `gorm:"foreignKey:ServicioID" json:"extensiones"`
	Adicionales []Adicional       `gorm:"foreignKey:ServicioID" json:"adicionales"`
	Consumos    []ConsumoDetalle  `gorm:"foreignKey:ServicioID" json:"consumos"`

	gorm.Model
}

func (s *Servicio) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ExtensionTiempo is one purchased time extension.
type ExtensionTiempo struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServicioID  uuid.UUID `gorm:"type:uuid;index;not null" json:"servicioId"`
	Duracion    string    `gorm:"not null" json:"duracion"` // extension label
	Minutos     int       `gorm:"not null" json:"minutos"`
	Costo       float64   `gorm:"type:decimal(10,2);not null" json:"costo"`
	MetodoPago  string    `gorm:"type:varchar(20)" json:"metodoPago"`
	Comprobante string    `json:"comprobante"`
	RegistradoA time.Time `gorm:"not null" json:"registradoA"`
}

func (e *ExtensionTiempo) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// Adicional is one free-form extra charge (drinks, tips) appended during the
// session. Boutique purchases land here too, with the description formatted as
// "<product name> (x<quantity>)".
type Adicional struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServicioID  uuid.UUID `gorm:"type:uuid;index;not null" json:"servicioId"`
	Descripcion string    `gorm:"not null" json:"descripcion"`
	Costo       float64   `gorm:"type:decimal(10,2);not null" json:"costo"`
	MetodoPago  string    `gorm:"type:varchar(20)" json:"metodoPago"`
	Comprobante string    `json:"comprobante"`
	RegistradoA time.Time `gorm:"not null" json:"registradoA"`
}

func (a *Adicional) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// ConsumoDetalle is the itemized shape for boutique consumption: unit cost and
// quantity kept separate.
type ConsumoDetalle struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServicioID  uuid.UUID `gorm:"type:uuid;index;not null" json:"servicioId"`
	Descripcion string    `gorm:"not null" json:"descripcion"`
	Costo       float64   `gorm:"type:decimal(10,2);not null" json:"costo"` // unit cost
	Cantidad    int       `gorm:"not null;default:1" json:"cantidad"`
	RegistradoA time.Time `gorm:"not null" json:"registradoA"`
}

func (c *ConsumoDetalle) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// Total recomputes the session cost from the base price and the three ledgers.
func (s *Servicio) Total() float64 {
	total := s.CostoBase
	for _, e := range s.Extensiones {
		total += e.Costo
	}
	for _, a := range s.Adicionales {
		total += a.Costo
	}
	for _, c := range s.Consumos {
		total += c.Costo * float64(c.Cantidad)
	}
	return total
}

// TiempoRestante returns the remaining seconds at the given instant, derived
// from the start time and current duration only.
func (s *Servicio) TiempoRestante(now time.Time) int {
	elapsed := int(now.Sub(s.HoraInicio).Seconds())
	remaining := s.DuracionMinutos*60 - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TiempoNegativo returns the overtime seconds at the given instant.
func (s *Servicio) TiempoNegativo(now time.Time) int {
	elapsed := int(now.Sub(s.HoraInicio).Seconds())
	overtime := elapsed - s.DuracionMinutos*60
	if overtime < 0 {
		return 0
	}
	return overtime
}

// DescripcionConsumo formats a boutique purchase for the add-on ledger.
func DescripcionConsumo(nombre string, cantidad int) string {
	return fmt.Sprintf("%s (x%d)", nombre, cantidad)
}
