package services

import (
	"fmt"
	"time"
)

// ResetMailer turns a reset token into a deliverable email. It implements
// the façade's ResetLinkSender contract; the token itself is the only thing
// the auth core ever hands over.
type ResetMailer struct {
	Sender   EmailSender
	LinkBase string
	TTL      time.Duration
}

func (m *ResetMailer) SendResetLink(to string, token string) error {
	subject := "Reset your password"
	body := fmt.Sprintf(
		"Click the link below to reset your password:\n\n%s%s\n\nThis link expires in %d minutes. If you did not request a reset, ignore this email.",
		m.LinkBase, token, int(m.TTL.Minutes()),
	)
	if err := m.Sender.Send(to, subject, body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
