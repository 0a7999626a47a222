package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertaLog records every five-minutes-left alert dispatch attempt.
type AlertaLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServicioID   uuid.UUID `gorm:"type:uuid;index;not null" json:"servicioId"`
	ModeloEmail  string    `gorm:"index" json:"modeloEmail"`
	Mensaje      string    `gorm:"type:text" json:"mensaje"`
	Canal        string    `gorm:"type:varchar(20)" json:"canal"`  // whatsapp, sms, log
	Estado       string    `gorm:"type:varchar(20)" json:"estado"` // sent, failed
	ErrorMensaje string    `gorm:"type:text" json:"errorMensaje"`
	EnviadaA     time.Time `json:"enviadaA"`
	gorm.Model
}

func (a *AlertaLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
