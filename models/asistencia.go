package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance approval states. Check-in starts at pendiente and an admin moves
// it exactly once to aprobada or rechazada.
const (
	AsistenciaPendiente = "pendiente"
	AsistenciaAprobada  = "aprobada"
	AsistenciaRechazada = "rechazada"
)

// Asistencia is one shift check-in, backed by a selfie taken at the door.
type Asistencia struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ModeloEmail string    `gorm:"index;not null" json:"modeloEmail"`

	HoraEntrada time.Time  `gorm:"not null" json:"horaEntrada"`
	HoraSalida  *time.Time `json:"horaSalida"`

	Selfie        string `gorm:"not null" json:"selfie"` // proof reference from storage
	Estado        string `gorm:"type:varchar(20);default:'pendiente';index" json:"estado"`
	RevisadaPor   string `json:"revisadaPor"` // reviewer user id
	MotivoRechazo string `json:"motivoRechazo"`

	gorm.Model
}

func (a *Asistencia) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
