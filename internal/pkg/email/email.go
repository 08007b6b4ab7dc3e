package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// Mailer defines the interface for graduate notification emails
type Mailer interface {
	SendRegistrationEmail(toEmail, toName string) error
	SendApprovalEmail(toEmail, toName string) error
	SendRejectionEmail(toEmail, toName, reason string) error
	SendPasswordResetEmail(toEmail, toName, resetURL string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// SMTPMailer implements Mailer over SMTP
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// SendRegistrationEmail confirms that a registration was received and is
// awaiting review
func (s *SMTPMailer) SendRegistrationEmail(toEmail, toName string) error {
	subject := "Registration Received - UNICEN Alumni Registry"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Thank you for registering!</h2>
				<p>Hello %s,</p>
				<p>We have received your registration in the UNICEN alumni registry. An administrator will review your profile shortly.</p>
				<p>You will receive another email once your profile has been reviewed.</p>
				<p>Best regards,<br>The UNICEN Alumni Team</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.send(toEmail, subject, body)
}

// SendApprovalEmail notifies a graduate that their profile was approved
func (s *SMTPMailer) SendApprovalEmail(toEmail, toName string) error {
	subject := "Profile Approved - UNICEN Alumni Registry"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Your profile has been approved!</h2>
				<p>Hello %s,</p>
				<p>Your profile in the UNICEN alumni registry has been approved and is now visible on the alumni map.</p>
				<p>You can log in at any time to keep your information up to date.</p>
				<p>Best regards,<br>The UNICEN Alumni Team</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.send(toEmail, subject, body)
}

// SendRejectionEmail notifies a graduate that their profile was rejected,
// including the reviewer's observations when present
func (s *SMTPMailer) SendRejectionEmail(toEmail, toName, reason string) error {
	subject := "Profile Review Update - UNICEN Alumni Registry"

	reasonBlock := ""
	if reason != "" {
		reasonBlock = fmt.Sprintf("<p>Reviewer observations: <em>%s</em></p>", reason)
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Profile review update</h2>
				<p>Hello %s,</p>
				<p>Unfortunately your profile in the UNICEN alumni registry could not be approved at this time.</p>
				%s
				<p>You can update your information and it will be reviewed again.</p>
				<p>Best regards,<br>The UNICEN Alumni Team</p>
			</div>
		</body>
		</html>
	`, toName, reasonBlock)

	return s.send(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset link
func (s *SMTPMailer) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	subject := "Password Reset - UNICEN Alumni Registry"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Password reset requested</h2>
				<p>Hello %s,</p>
				<p>We received a request to reset your password. Click the button below to choose a new one:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>
				<p>This link will expire in 1 hour.</p>
				<p>If you did not request a password reset, please ignore this email.</p>
				<p>Best regards,<br>The UNICEN Alumni Team</p>
			</div>
		</body>
		</html>
	`, toName, resetURL)

	return s.send(toEmail, subject, body)
}

// send delivers an HTML email. Without SMTP credentials the email is logged
// instead, so local development does not need a mail server.
func (s *SMTPMailer) send(toEmail, subject, htmlBody string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message))
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
