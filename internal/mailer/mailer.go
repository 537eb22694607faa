// Package mailer composes the account emails. Actual delivery is an external
// collaborator; the default transport only logs the message so the
// confirmation and reset links are visible during development.
package mailer

import (
	"fmt"
	"log/slog"
)

// Mailer delivers an email to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer writes messages to the process log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	slog.Info("email", "to", to, "subject", subject, "body", body)
	return nil
}

// Service builds the application's emails on top of a Mailer.
type Service struct {
	mailer  Mailer
	baseURL string
}

func NewService(m Mailer, baseURL string) *Service {
	return &Service{mailer: m, baseURL: baseURL}
}

// SendConfirmation mails the account-confirmation link for token.
func (s *Service) SendConfirmation(nombre, email, token string) error {
	body := fmt.Sprintf(
		"Hola %s, confirma tu cuenta en Bienes Raíces: %s/auth/confirmar/%s",
		nombre, s.baseURL, token,
	)
	return s.mailer.Send(email, "Confirma tu Cuenta en BienesRaices.com", body)
}

// SendPasswordReset mails the reset link for token.
func (s *Service) SendPasswordReset(nombre, email, token string) error {
	body := fmt.Sprintf(
		"Hola %s, reestablece tu password en Bienes Raíces: %s/auth/reset-password/%s",
		nombre, s.baseURL, token,
	)
	return s.mailer.Send(email, "Reestablece tu Password en BienesRaices.com", body)
}
