package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/linarifux/dentista-api/internal/models"
)

// NotificationService sends booking SMS through Textbelt. Sends are
// fire-and-forget: a failed SMS never fails the booking.
type NotificationService struct {
	log zerolog.Logger
}

func NewNotificationService(log zerolog.Logger) *NotificationService {
	return &NotificationService{log: log}
}

// SendBookingReceived tells the patient their request was registered.
func (s *NotificationService) SendBookingReceived(apt *models.Appointment) {
	s.send(apt, fmt.Sprintf(
		"Richiesta ricevuta: %s il %s alle %s. Ti confermeremo a breve.",
		apt.Service, apt.Date, apt.Time,
	))
}

// SendStatusChanged notifies the patient of a confirmation or cancellation.
func (s *NotificationService) SendStatusChanged(apt *models.Appointment) {
	var body string
	switch apt.Status {
	case models.StatusConfirmed:
		body = fmt.Sprintf("Appuntamento confermato: %s il %s alle %s.", apt.Service, apt.Date, apt.Time)
	case models.StatusCancelled:
		body = fmt.Sprintf("Appuntamento annullato: %s il %s alle %s.", apt.Service, apt.Date, apt.Time)
	default:
		return
	}
	s.send(apt, body)
}

func (s *NotificationService) send(apt *models.Appointment, body string) {
	if apt.Phone == "" {
		s.log.Debug().Str("appointment", apt.ID.Hex()).Msg("sms skipped, no phone number")
		return
	}
	go s.sendSmsWithTextbelt(apt.Phone, body)
}

func (s *NotificationService) sendSmsWithTextbelt(phone, message string) {
	// Textbelt free key allows 1 SMS per day.
	textbeltKey := os.Getenv("TEXTBELT_API_KEY")
	if textbeltKey == "" {
		s.log.Debug().Msg("sms skipped, TEXTBELT_API_KEY not set")
		return
	}

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     textbeltKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("textbelt request failed")
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.log.Error().Err(err).Msg("textbelt response decode failed")
		return
	}

	if success, _ := result["success"].(bool); !success {
		reason, _ := result["error"].(string)
		s.log.Warn().Str("phone", phone).Str("reason", reason).Msg("sms rejected by textbelt")
		return
	}
	s.log.Info().Str("phone", phone).Msg("sms sent")
}
