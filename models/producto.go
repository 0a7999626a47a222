package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Producto is a boutique item with dual pricing: the regular walk-in price and
// the price charged while consumed inside an active service.
type Producto struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Nombre         string    `gorm:"index;not null" json:"nombre"`
	Descripcion    string    `json:"descripcion"`
	PrecioRegular  float64   `gorm:"type:decimal(10,2);not null" json:"precioRegular"`
	PrecioServicio float64   `gorm:"type:decimal(10,2);not null" json:"precioServicio"`
	Stock          int       `gorm:"not null;default:0" json:"stock"`
	StockMinimo    int       `gorm:"not null;default:5" json:"stockMinimo"`
	Categoria      string    `gorm:"default:'General'" json:"categoria"`
	Imagen         string    `json:"imagen"`
	Activo         bool      `gorm:"default:true" json:"activo"`

	gorm.Model
}

func (p *Producto) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
