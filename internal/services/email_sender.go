package services

// EmailSender is the outbound-mail collaborator. Transport configuration
// (host, credentials) lives entirely behind this interface.
type EmailSender interface {
	Send(to string, subject string, body string) error
}
