package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement types
const (
	MovimientoConsumo = "consumo_servicio"
	MovimientoVenta   = "venta_directa"
	MovimientoAjuste  = "ajuste_manual"
)

// MovimientoStock records every stock change on a boutique product: who moved
// it, how much, and the before/after counts.
type MovimientoStock struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ProductoID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"productoId"`
	Tipo          string     `gorm:"type:varchar(30);not null" json:"tipo"`
	Cantidad      int        `gorm:"not null" json:"cantidad"` // positive = in, negative = out
	StockAnterior int        `gorm:"not null" json:"stockAnterior"`
	StockNuevo    int        `gorm:"not null" json:"stockNuevo"`
	Motivo        string     `json:"motivo"`
	ServicioID    *uuid.UUID `gorm:"type:uuid;index" json:"servicioId"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
