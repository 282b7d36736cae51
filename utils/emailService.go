package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"ibuild/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Intellect Building <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all triggers
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1e3a8a; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #0f172a; line-height: 1.6; }
			.content h2 { color: #1e3a8a; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2563eb; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>INTELLECT BUILDING</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Intellect Building. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a new account. Fired asynchronously on signup.
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Intellect Building"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Intellect Building</strong>! Your account has been created.</p>
		<p>You can now browse the course catalogue, request quotes and follow your worksites.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome!", body))
}

// SendCertificateReadyEmail tells a student their certificate is available.
func SendCertificateReadyEmail(email, name, courseTitle string) {
	subject := "Your certificate is ready"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<p>Your certificate of achievement is now available in your dashboard.</p>
		<a class="btn" href="%s/dashboard/certificates">View certificate</a>
	`, name, courseTitle, config.AppConfig.FrontendURL)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course completed", body))
}

// SendTrainerPromotionEmail congratulates a user promoted to trainer.
func SendTrainerPromotionEmail(email, name string) {
	subject := "You are now a trainer"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You passed the trainer qualification test. Your account has been upgraded and you can now author courses.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Congratulations!", body))
}
