package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendGuardrailAlert(sessionID, abortedAt, maxSeverity string, violationCount int) error
	SendHighRiskAlert(sessionID, riskTier string, confidence float64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	recipients  []string
}

func NewEmailService(host string, port int, username, password, senderName string, recipients []string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		recipients:  recipients,
	}
}

func (s *emailService) SendGuardrailAlert(sessionID, abortedAt, maxSeverity string, violationCount int) error {
	if len(s.recipients) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", "Guardrail block on risk copilot")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A request was blocked by the guardrail engine</h2>
			<p>Session: <b>%s</b></p>
			<p>Blocked at stage: <b>%s</b></p>
			<p>Violations: <b>%d</b> (max severity: <b>%s</b>)</p>
			<p>The full stage trace is available in the audit console.</p>
		</div>
	`, sessionID, abortedAt, violationCount, strings.ToUpper(maxSeverity))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send guardrail alert: %v\n", err)
		return err
	}

	fmt.Printf("[MAILER] Guardrail alert sent for session %s\n", sessionID)
	return nil
}

func (s *emailService) SendHighRiskAlert(sessionID, riskTier string, confidence float64) error {
	if len(s.recipients) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("%s risk answer delivered", strings.ToUpper(riskTier)))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>An answer with an elevated risk tier was delivered</h2>
			<p>Session: <b>%s</b></p>
			<p>Risk tier: <b>%s</b></p>
			<p>Confidence: <b>%.2f</b></p>
			<p>Please review the decision in the audit console.</p>
		</div>
	`, sessionID, strings.ToUpper(riskTier), confidence)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send high risk alert: %v\n", err)
		return err
	}

	fmt.Printf("[MAILER] High risk alert sent for session %s\n", sessionID)
	return nil
}
