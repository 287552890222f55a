package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"microfinance-backend/internal/config"
	"microfinance-backend/internal/logger"
)

type emailService struct {
	client   *sendgrid.Client
	from     *mail.Email
	disabled bool
}

// NewEmailService builds the SendGrid-backed mailer. With no API key
// configured the service logs instead of sending, so local environments work
// without credentials.
func NewEmailService(cfg config.SendGridConfig) EmailService {
	return &emailService{
		client:   sendgrid.NewSendClient(cfg.APIKey),
		from:     mail.NewEmail(cfg.FromName, cfg.From),
		disabled: cfg.APIKey == "",
	}
}

func (s *emailService) SendOverdueNotice(ctx context.Context, toEmail, customerName string, loanID int32, totalDue decimal.Decimal, daysLate int) error {
	subject := "Payment reminder: your loan installment is overdue"
	plain := fmt.Sprintf(
		"Dear %s,\n\nYour loan #%d has an overdue installment. The outstanding amount is %s and it is %d day(s) late. "+
			"Late interest accrues daily until the installment is settled.\n\nPlease contact your collector to arrange payment.\n",
		customerName, loanID, totalDue.StringFixed(2), daysLate)
	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your loan <strong>#%d</strong> has an overdue installment. The outstanding amount is <strong>%s</strong> and it is %d day(s) late. "+
			"Late interest accrues daily until the installment is settled.</p><p>Please contact your collector to arrange payment.</p>",
		customerName, loanID, totalDue.StringFixed(2), daysLate)

	if s.disabled {
		logger.Info("email sending disabled, skipping overdue notice", "to", toEmail, "loan_id", loanID)
		return nil
	}

	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(customerName, toEmail), plain, html)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send overdue notice: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected overdue notice: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
