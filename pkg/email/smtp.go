package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/alsetso/alsetmaps-backend/internal/config"
	"github.com/alsetso/alsetmaps-backend/internal/models"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendRefinanceNotification mails the loan desk about a new refinance lead
func (s *EmailService) SendRefinanceNotification(lead *models.RefinanceRequest) error {
	to := s.cfg.RefinanceNotifyEmail
	if to == "" {
		return fmt.Errorf("REFINANCE_NOTIFY_EMAIL is not configured")
	}

	subject := fmt.Sprintf("[AlsetMaps] New refinance lead: %s", lead.Name)

	phone := "-"
	if lead.Phone != nil {
		phone = *lead.Phone
	}
	balance := "-"
	if lead.CurrentBalance != nil {
		balance = fmt.Sprintf("$%d", *lead.CurrentBalance)
	}
	rate := "-"
	if lead.CurrentRate != nil {
		rate = fmt.Sprintf("%.3f%%", *lead.CurrentRate)
	}
	notes := "-"
	if lead.Notes != nil {
		notes = *lead.Notes
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2C5F8A;">New refinance request</h2>
        <table style="width: 100%%; border-collapse: collapse;">
            <tr><td style="padding: 6px 0; color: #999;">Name</td><td>%s</td></tr>
            <tr><td style="padding: 6px 0; color: #999;">Email</td><td>%s</td></tr>
            <tr><td style="padding: 6px 0; color: #999;">Phone</td><td>%s</td></tr>
            <tr><td style="padding: 6px 0; color: #999;">Property</td><td>%s</td></tr>
            <tr><td style="padding: 6px 0; color: #999;">Current balance</td><td>%s</td></tr>
            <tr><td style="padding: 6px 0; color: #999;">Current rate</td><td>%s</td></tr>
            <tr><td style="padding: 6px 0; color: #999;">Notes</td><td>%s</td></tr>
        </table>
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">
            Lead #%d, submitted through the AlsetMaps refinance form.
        </p>
    </div>
</body>
</html>
`, lead.Name, lead.Email, phone, lead.PropertyAddress, balance, rate, notes, lead.ID)

	return s.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to, subject, body string) error {
	// Gmail requires sender to match authenticated user
	from := s.cfg.EmailHostUser

	displayFrom := from
	if s.cfg.DefaultFromEmail != "" {
		displayFrom = fmt.Sprintf("AlsetMaps <%s>", from)
	}

	auth := smtp.PlainAuth("", s.cfg.EmailHostUser, s.cfg.EmailHostPassword, s.cfg.EmailHost)

	headers := make(map[string]string)
	headers["From"] = displayFrom
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["Content-Transfer-Encoding"] = "quoted-printable"

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	addr := fmt.Sprintf("%s:%d", s.cfg.EmailHost, s.cfg.EmailPort)

	if s.cfg.EmailUseTLS {
		return s.sendMailTLS(addr, auth, from, []string{to}, []byte(message))
	}

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(message))
}

// sendMailTLS sends email with STARTTLS
func (s *EmailService) sendMailTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host := strings.Split(addr, ":")[0]
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	_, err = w.Write(msg)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
