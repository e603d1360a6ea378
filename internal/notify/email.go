package notify

import (
	"context"
	"fmt"
	"html"

	"encore-rentals/internal/logger"
	"encore-rentals/internal/repository"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// Email is one outgoing mail.
type Email struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

// EmailNotifier looks up the recipient's address and mails the message.
type EmailNotifier struct {
	users  repository.UserRepository
	sender Sender
}

func NewEmailNotifier(users repository.UserRepository, sender Sender) *EmailNotifier {
	return &EmailNotifier{users: users, sender: sender}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	user, err := n.users.GetByID(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("failed to look up recipient %s: %w", msg.UserID, err)
	}
	if user.Email == "" {
		return nil
	}
	return n.sender.Send(ctx, composeEmail(user.Email, user.Name, msg))
}

func composeEmail(to, name string, msg Message) Email {
	plain := fmt.Sprintf("Hello %s,\n\n%s.\n\nBest regards,\nThe Encore Team", name, msg.Body)
	body := fmt.Sprintf("<html><body><p>Hello %s,</p><p>%s.</p><p>Best regards,<br>The Encore Team</p></body></html>",
		html.EscapeString(name), html.EscapeString(msg.Body))
	return Email{To: to, ToName: name, Subject: msg.Title, PlainText: plain, HTML: body}
}

type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *SendGridSender) message(e Email) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(e.ToName, e.To)
	return mail.NewSingleEmail(from, e.Subject, recipient, e.PlainText, e.HTML)
}

func (s *SendGridSender) Send(ctx context.Context, e Email) error {
	logger.ExternalServiceCall("sendgrid", "send", "subject", e.Subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, s.message(e))
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
	} else if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err)
	return err
}

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPSender) message(e Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", e.To, e.ToName)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/plain", e.PlainText)
	if e.HTML != "" {
		m.AddAlternative("text/html", e.HTML)
	}
	return m
}

func (s *SMTPSender) Send(_ context.Context, e Email) error {
	logger.ExternalServiceCall("smtp", "send", "subject", e.Subject)
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	err := d.DialAndSend(s.message(e))
	if err != nil {
		err = fmt.Errorf("failed to send email via gomail: %w", err)
	}
	logger.ExternalServiceResult("smtp", "send", err)
	return err
}
