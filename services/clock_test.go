package services

import (
	"testing"
	"time"

	"venueops-backend/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendFiveMinuteAlert(servicio *models.Servicio) error {
	f.sent = append(f.sent, servicio.ModeloEmail)
	return nil
}

func seedActiveSession(t *testing.T, db *gorm.DB, email string, inicio time.Time, duracionMin int) *models.Servicio {
	t.Helper()
	servicio := &models.Servicio{
		ModeloEmail:     email,
		TipoUbicacion:   models.UbicacionSede,
		Habitacion:      "1",
		TiempoServicio:  "1 hora",
		DuracionMinutos: duracionMin,
		HoraInicio:      inicio,
		CostoBase:       150000,
		Estado:          models.EstadoActivo,
	}
	if err := db.Create(servicio).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return servicio
}

func TestTickSnapshots(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	// 20 minutes in on a 60 minute session
	seedActiveSession(t, db, "valentina@venue.co", now.Add(-20*time.Minute), 60)

	clock := NewClockService(db, nil, zerolog.Nop())
	clock.Refresh()

	snapshots := clock.Tick(now)
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}
	if snapshots[0].TiempoRestante != 40*60 {
		t.Fatalf("expected 2400s remaining, got %d", snapshots[0].TiempoRestante)
	}
	if snapshots[0].TiempoNegativo != 0 {
		t.Fatalf("expected no overtime, got %d", snapshots[0].TiempoNegativo)
	}
}

func TestTickOvertime(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	// 125 seconds past a 60 minute session
	seedActiveSession(t, db, "valentina@venue.co", now.Add(-60*time.Minute-125*time.Second), 60)

	clock := NewClockService(db, nil, zerolog.Nop())
	clock.Refresh()

	snapshots := clock.Tick(now)
	if snapshots[0].TiempoRestante != 0 {
		t.Fatalf("expected 0s remaining, got %d", snapshots[0].TiempoRestante)
	}
	if snapshots[0].TiempoNegativo != 125 {
		t.Fatalf("expected 125s of overtime, got %d", snapshots[0].TiempoNegativo)
	}
}

func TestTickFiresAlertOnceAcrossTicks(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	// 4 minutes remaining: already under the 5 minute mark
	servicio := seedActiveSession(t, db, "valentina@venue.co", now.Add(-56*time.Minute), 60)
	// 30 minutes remaining: no alert expected
	seedActiveSession(t, db, "camila@venue.co", now.Add(-30*time.Minute), 60)

	sender := &fakeSender{}
	clock := NewClockService(db, sender, zerolog.Nop())
	clock.Refresh()

	clock.Tick(now)
	clock.Tick(now.Add(time.Second))
	clock.Tick(now.Add(2 * time.Second))

	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(sender.sent))
	}
	if sender.sent[0] != "valentina@venue.co" {
		t.Fatalf("alert went to the wrong session: %s", sender.sent[0])
	}

	var recargado models.Servicio
	if err := db.First(&recargado, "id = ?", servicio.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if !recargado.AlertaEnviada {
		t.Fatalf("expected the alert flag to be persisted")
	}
}

func TestTickDoesNotRefireAfterExtension(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	servicio := seedActiveSession(t, db, "valentina@venue.co", now.Add(-56*time.Minute), 60)

	sender := &fakeSender{}
	clock := NewClockService(db, sender, zerolog.Nop())
	clock.Refresh()
	clock.Tick(now)

	// Time purchase lifts the countdown back above the threshold
	if err := db.Model(&models.Servicio{}).
		Where("id = ?", servicio.ID).
		Update("duracion_minutos", 90).Error; err != nil {
		t.Fatalf("extend: %v", err)
	}
	clock.Refresh()
	clock.Tick(now.Add(time.Second))

	// It decays through the mark a second time
	clock.Tick(now.Add(30 * time.Minute))

	if len(sender.sent) != 1 {
		t.Fatalf("expected the alert to fire at most once per session, got %d", len(sender.sent))
	}
}
