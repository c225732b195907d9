package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ticketdesk-io/ticketdesk/internal/models"
)

type Config struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	From         string
	AdminTo      string
	UseTLS       bool
}

// Service sends best-effort notification mail to the admin mailbox on
// ticket creation and status change. It implements service.Notifier.
type Service struct {
	config    Config
	sanitizer *bluemonday.Policy
}

func NewService(config Config) *Service {
	return &Service{
		config:    config,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *Service) enabled() bool {
	return s.config.Enabled && s.config.SMTPHost != ""
}

// TicketCreated notifies the admin mailbox about a new ticket. The send
// happens in a goroutine; delivery failures are logged and swallowed so
// the ticket mutation never depends on the mail outcome.
func (s *Service) TicketCreated(ticket *models.Ticket) {
	if !s.enabled() {
		log.Printf("email: notifications disabled, skipping new-ticket mail for ticket %d", ticket.ID)
		return
	}

	subject := fmt.Sprintf("Nouveau ticket créé - %s", ticket.Title)
	go func() {
		body, err := s.renderTicket(newTicketTemplate, ticket, ticket.Status)
		if err != nil {
			log.Printf("email: failed to render new-ticket mail: %v", err)
			return
		}
		if err := s.send(subject, body); err != nil {
			log.Printf("email: failed to send new-ticket mail for ticket %d: %v", ticket.ID, err)
		}
	}()
}

// StatusChanged notifies the admin mailbox about a status transition.
func (s *Service) StatusChanged(ticket *models.Ticket, newStatus string) {
	if !s.enabled() {
		log.Printf("email: notifications disabled, skipping status mail for ticket %d", ticket.ID)
		return
	}

	subject := fmt.Sprintf("Mise à jour du ticket - %s", ticket.Title)
	go func() {
		body, err := s.renderTicket(statusUpdateTemplate, ticket, newStatus)
		if err != nil {
			log.Printf("email: failed to render status mail: %v", err)
			return
		}
		if err := s.send(subject, body); err != nil {
			log.Printf("email: failed to send status mail for ticket %d: %v", ticket.ID, err)
		}
	}()
}

type templateData struct {
	Title            string
	Description      string
	Priority         string
	PriorityColor    string
	Status           string
	StatusColor      string
	Service          string
	ServiceDemandeur string
	NomDemandeur     string
	EstimatedTime    string
}

var priorityColors = map[string]string{
	models.PriorityHigh:   "#e74c3c",
	models.PriorityNormal: "#f39c12",
	models.PriorityLow:    "#27ae60",
}

var statusColors = map[string]string{
	models.StatusNew:        "#3498db",
	models.StatusInProgress: "#f39c12",
	models.StatusDone:       "#27ae60",
	models.StatusCancelled:  "#e74c3c",
}

func (s *Service) renderTicket(tmpl *template.Template, ticket *models.Ticket, status string) (string, error) {
	estimated := "Non estimé"
	if ticket.EstimatedTime != nil {
		estimated = fmt.Sprintf("%d heures", *ticket.EstimatedTime)
	}

	data := templateData{
		Title:            s.sanitizer.Sanitize(ticket.Title),
		Description:      s.sanitizer.Sanitize(ticket.Description),
		Priority:         strings.ToUpper(ticket.Priority),
		PriorityColor:    priorityColors[ticket.Priority],
		Status:           strings.ToUpper(strings.ReplaceAll(status, "_", " ")),
		StatusColor:      statusColors[status],
		Service:          s.sanitizer.Sanitize(ticket.Service),
		ServiceDemandeur: s.sanitizer.Sanitize(ticket.ServiceDemandeur),
		NomDemandeur:     s.sanitizer.Sanitize(ticket.NomDemandeur),
		EstimatedTime:    estimated,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) send(subject, body string) error {
	var headers bytes.Buffer
	headers.WriteString(fmt.Sprintf("From: %s\r\n", s.config.From))
	headers.WriteString(fmt.Sprintf("To: %s\r\n", s.config.AdminTo))
	headers.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	headers.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	headers.WriteString("MIME-Version: 1.0\r\n")
	headers.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	headers.WriteString("\r\n")
	headers.WriteString(body)

	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if s.config.UseTLS {
		return s.sendTLS(addr, auth, headers.Bytes())
	}
	return smtp.SendMail(addr, auth, s.config.From, []string{s.config.AdminTo}, headers.Bytes())
}

func (s *Service) sendTLS(addr string, auth smtp.Auth, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: s.config.SMTPHost}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(s.config.AdminTo); err != nil {
		return fmt.Errorf("failed to add recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
