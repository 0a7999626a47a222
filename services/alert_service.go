package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"venueops-backend/models"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// AlertService delivers the five-minutes-left warning to the model's phone via
// Twilio (WhatsApp when the number is E.164, SMS otherwise) and audits every
// attempt in alerta_logs.
type AlertService struct {
	db     *gorm.DB
	client *twilio.RestClient
	log    zerolog.Logger
}

func NewAlertService(db *gorm.DB, log zerolog.Logger) *AlertService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	var client *twilio.RestClient
	if accountSid != "" && authToken != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	}

	return &AlertService{db: db, client: client, log: log.With().Str("service", "alerts").Logger()}
}

// SendFiveMinuteAlert implements AlertSender.
func (s *AlertService) SendFiveMinuteAlert(servicio *models.Servicio) error {
	mensaje := fmt.Sprintf("Quedan 5 minutos del servicio en %s. Extiende el tiempo o prepara el cierre.",
		s.ubicacion(servicio))

	var modelo models.Modelo
	if err := s.db.First(&modelo, "email = ?", servicio.ModeloEmail).Error; err != nil {
		s.logAttempt(servicio, mensaje, "log", "failed", "modelo no encontrada en el roster")
		return err
	}

	if s.client == nil || modelo.Telefono == "" {
		// No delivery channel configured; the audit row is the notification.
		s.logAttempt(servicio, mensaje, "log", "sent", "")
		return nil
	}

	channel := "sms"
	to := modelo.Telefono
	if strings.HasPrefix(modelo.Telefono, "+") {
		to = "whatsapp:" + modelo.Telefono
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(mensaje)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.log.Error().Err(err).Str("modelo", servicio.ModeloEmail).Msg("twilio send failed")
		s.logAttempt(servicio, mensaje, channel, "failed", err.Error())
		return err
	}
	if resp.Sid != nil {
		s.log.Info().Str("modelo", servicio.ModeloEmail).Str("sid", *resp.Sid).Msg("alerta enviada")
	}
	s.logAttempt(servicio, mensaje, channel, "sent", "")
	return nil
}

func (s *AlertService) ubicacion(servicio *models.Servicio) string {
	if servicio.TipoUbicacion == models.UbicacionSede && servicio.Habitacion != "" {
		return "habitación " + servicio.Habitacion
	}
	return strings.ToLower(servicio.TipoUbicacion)
}

func (s *AlertService) logAttempt(servicio *models.Servicio, mensaje, canal, estado, errorMensaje string) {
	alerta := models.AlertaLog{
		ServicioID:   servicio.ID,
		ModeloEmail:  servicio.ModeloEmail,
		Mensaje:      mensaje,
		Canal:        canal,
		Estado:       estado,
		ErrorMensaje: errorMensaje,
		EnviadaA:     time.Now(),
	}
	if err := s.db.Create(&alerta).Error; err != nil {
		s.log.Error().Err(err).Str("servicio", servicio.ID.String()).Msg("no se pudo registrar la alerta")
	}
}
