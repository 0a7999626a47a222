package services

import (
	"sync"
	"time"

	"venueops-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// fiveMinuteThreshold is the remaining-seconds mark at which the model gets
// warned that her service is about to run out.
const fiveMinuteThreshold = 300

// AlertSender delivers the five-minutes-left warning.
type AlertSender interface {
	SendFiveMinuteAlert(servicio *models.Servicio) error
}

// ClockService recomputes remaining/overtime for every active session once a
// second. The recomputation is pure: it only reads hora_inicio and
// duracion_minutos, so a missed tick never drifts the countdown.
type ClockService struct {
	db     *gorm.DB
	sender AlertSender
	log    zerolog.Logger
	cron   *cron.Cron

	mu     sync.RWMutex
	active []models.Servicio
}

func NewClockService(db *gorm.DB, sender AlertSender, log zerolog.Logger) *ClockService {
	return &ClockService{
		db:     db,
		sender: sender,
		log:    log.With().Str("service", "clock").Logger(),
	}
}

// Start schedules the 1 Hz tick and the periodic registry refresh.
func (c *ClockService) Start() error {
	c.Refresh()

	c.cron = cron.New(cron.WithSeconds())
	if _, err := c.cron.AddFunc("* * * * * *", func() { c.Tick(time.Now()) }); err != nil {
		return err
	}
	if _, err := c.cron.AddFunc("*/10 * * * * *", c.Refresh); err != nil {
		return err
	}
	c.cron.Start()
	c.log.Info().Msg("session clock started")
	return nil
}

func (c *ClockService) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}

// Refresh reloads the active-session registry from the store.
func (c *ClockService) Refresh() {
	var servicios []models.Servicio
	if err := c.db.Where("estado = ?", models.EstadoActivo).Find(&servicios).Error; err != nil {
		c.log.Error().Err(err).Msg("refresh of active sessions failed")
		return
	}
	c.mu.Lock()
	c.active = servicios
	c.mu.Unlock()
}

// SesionSnapshot is the derived countdown view of one active session.
type SesionSnapshot struct {
	ServicioID     uuid.UUID `json:"servicioId"`
	ModeloEmail    string    `json:"modeloEmail"`
	TiempoRestante int       `json:"tiempoRestante"`
	TiempoNegativo int       `json:"tiempoNegativo"`
}

// Tick recomputes every registered session at the given instant and fires the
// five-minute alert for sessions that crossed the threshold. Exposed for tests.
func (c *ClockService) Tick(now time.Time) []SesionSnapshot {
	c.mu.RLock()
	active := make([]models.Servicio, len(c.active))
	copy(active, c.active)
	c.mu.RUnlock()

	snapshots := make([]SesionSnapshot, 0, len(active))
	for i := range active {
		servicio := &active[i]
		restante := servicio.TiempoRestante(now)
		snapshots = append(snapshots, SesionSnapshot{
			ServicioID:     servicio.ID,
			ModeloEmail:    servicio.ModeloEmail,
			TiempoRestante: restante,
			TiempoNegativo: servicio.TiempoNegativo(now),
		})

		// Crossing detection instead of the exact-equality check: a delayed
		// tick must not skip the warning. Fires at most once per session,
		// even if a later extension lifts the countdown back above the mark.
		if restante <= fiveMinuteThreshold && !servicio.AlertaEnviada {
			c.fireAlert(servicio)
		}
	}
	return snapshots
}

func (c *ClockService) fireAlert(servicio *models.Servicio) {
	// Persist the flag first so a send retry loop cannot spam the model.
	result := c.db.Model(&models.Servicio{}).
		Where("id = ? AND alerta_enviada = ?", servicio.ID, false).
		Update("alerta_enviada", true)
	if result.Error != nil {
		c.log.Error().Err(result.Error).Str("servicio", servicio.ID.String()).Msg("no se pudo marcar la alerta")
		return
	}
	if result.RowsAffected == 0 {
		// Someone else already fired it.
		servicio.AlertaEnviada = true
		return
	}
	servicio.AlertaEnviada = true

	c.log.Info().
		Str("servicio", servicio.ID.String()).
		Str("modelo", servicio.ModeloEmail).
		Msg("quedan 5 minutos de servicio")

	if c.sender == nil {
		return
	}
	if err := c.sender.SendFiveMinuteAlert(servicio); err != nil {
		c.log.Error().Err(err).Str("servicio", servicio.ID.String()).Msg("alerta no entregada")
	}
}
