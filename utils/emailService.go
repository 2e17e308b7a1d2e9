package utils

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"lms/config"
	"lms/models/course"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "LMS Academy"

// Mailer sends the platform's HTML emails through SendGrid when an API key
// is configured and through SMTP otherwise.
type Mailer struct {
	transport func(ctx context.Context, to []string, subject, htmlBody string) error
}

// NewMailer picks the transport from cfg
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SendGridAPIKey != "" {
		client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
		return &Mailer{transport: func(ctx context.Context, to []string, subject, htmlBody string) error {
			for _, addr := range to {
				msg := mail.NewSingleEmail(mail.NewEmail(senderName, cfg.EmailSender), subject, mail.NewEmail("", addr), "", htmlBody)
				resp, err := client.SendWithContext(ctx, msg)
				if err != nil {
					return err
				}
				if resp.StatusCode >= 300 {
					return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
				}
			}
			return nil
		}}
	}

	return &Mailer{transport: func(_ context.Context, to []string, subject, htmlBody string) error {
		return sendSMTP(cfg, to, subject, htmlBody)
	}}
}

func sendSMTP(cfg *config.Config, to []string, subject, htmlBody string) error {
	from := cfg.EmailSender

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", senderName, from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, cfg.Password, cfg.SMTPHost)
	return smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, from, to, []byte(msg))
}

// SendEmail delivers one HTML email
func (m *Mailer) SendEmail(ctx context.Context, to []string, subject string, htmlBody string) error {
	log.Printf("[EMAIL] Sending %q to %v", subject, to)

	if err := m.transport(ctx, to, subject, htmlBody); err != nil {
		log.Printf("[EMAIL] Error sending %q: %v", subject, err)
		return err
	}
	return nil
}

// HTML wrapper shared by every email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E3A5F; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
			.status { display: inline-block; padding: 4px 8px; border-radius: 4px; font-weight: bold; color: white; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; %d %s. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, strings.ToUpper(senderName), title, bodyContent, time.Now().Year(), senderName)
}

// SendExamResultEmail tells a learner how an exam attempt went
func (m *Mailer) SendExamResultEmail(ctx context.Context, email, name, examTitle string, percentage int, status string) error {
	statusColor := "#DC3545"
	headline := "Keep Going!"
	if status == course.AttemptPassed {
		statusColor = "#28A745"
		headline = "Congratulations!"
	}

	subject := "Exam Result: " + examTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your attempt at <strong>%s</strong> has been graded.</p>
		<div class="info-box">
			Score: <strong>%d%%</strong>
			<span class="status" style="background-color: %s;">%s</span>
		</div>
	`, name, examTitle, percentage, statusColor, strings.ToUpper(status))

	return m.SendEmail(ctx, []string{email}, subject, getEmailTemplate(headline, body))
}

// SendEnrollmentEmail confirms a new enrollment
func (m *Mailer) SendEnrollmentEmail(ctx context.Context, email, name, courseName string) error {
	subject := "Course Enrollment Confirmation: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<p>Complete every module and pass the final exam to earn your certificate.</p>
	`, name, courseName)

	return m.SendEmail(ctx, []string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// SendComplianceReminderEmail warns a learner that a certification is about
// to lapse or already has
func (m *Mailer) SendComplianceReminderEmail(ctx context.Context, email, name, courseName, complianceStatus string, expiresAt *time.Time) error {
	expiryStr := "soon"
	if expiresAt != nil {
		expiryStr = expiresAt.Format("January 2, 2006")
	}

	subject := "Recertification Due: " + courseName
	title := "Certification Expiring Soon"
	line := fmt.Sprintf("Your certification for <strong>%s</strong> expires on <strong>%s</strong>.", courseName, expiryStr)
	if complianceStatus == course.ComplianceExpired {
		subject = "Certification Expired: " + courseName
		title = "Certification Expired"
		line = fmt.Sprintf("Your certification for <strong>%s</strong> expired on <strong>%s</strong>.", courseName, expiryStr)
	}

	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>%s</p>
		<p>Please retake the course to stay compliant.</p>
	`, name, line)

	return m.SendEmail(ctx, []string{email}, subject, getEmailTemplate(title, body))
}
