package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Modelo is one roster entry: the staff member who runs timed services.
// Email is the working identity used to bind sessions and attendance.
type Modelo struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Nombre   string    `gorm:"not null" json:"nombre"`
	Telefono string    `json:"telefono"` // E.164 for alert delivery

	NombreArtistico string `json:"nombreArtistico"`
	Habitacion      string `json:"habitacion"` // default room assignment
	Foto            string `json:"foto"`

	Activa       bool       `gorm:"default:true" json:"activa"`
	FechaIngreso *time.Time `json:"fechaIngreso"`

	gorm.Model
}

func (m *Modelo) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
