package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/utils"
	"github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"go.uber.org/zap"
)

// Mailer posts a payment confirmation to the mail-delivery service. Delivery
// is an opaque request/response contract; composing and sending the actual
// e-mail happens on the other side.
type Mailer interface {
	Notify(ctx context.Context, event views.PaymentEvent) error
}

type MailerImpl struct {
	logger *zap.Logger
	cnf    *configs.Config
	client *http.Client
}

type mailNotification struct {
	OrderCode string `json:"orderCode"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
}

func NewMailer(logger *zap.Logger, cnf *configs.Config) Mailer {
	return &MailerImpl{
		logger: logger,
		cnf:    cnf,
		client: utils.NewHTTPClient(
			utils.WithClientTimeout(5*time.Second),
			utils.WithResponseHeaderTimeout(3*time.Second),
		),
	}
}

// Notify posts the notification, retrying transient failures with jittered
// exponential backoff up to the configured attempt cap.
func (m *MailerImpl) Notify(ctx context.Context, event views.PaymentEvent) error {
	if pkg.IsEmptyString(m.cnf.NotifyURL) {
		return nil // mail notify disabled
	}
	if pkg.IsEmptyString(event.Email) {
		m.logger.Warn("payment event without customer email; skipping mail notify",
			zap.String(pkg.OrderCode, event.OrderCode))
		return nil
	}

	body, err := json.Marshal(mailNotification{
		OrderCode: event.OrderCode,
		Email:     event.Email,
		Status:    string(event.Status),
		Amount:    event.Amount,
	})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= m.cnf.NotifyMaxAttempts; attempt++ {
		if attempt > 1 {
			delay := utils.CalculateExponentialBackoffWithJitter(attempt-1, m.cnf.NotifyBaseBackoff, m.cnf.NotifyMaxBackoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		lastErr = m.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		m.logger.Warn("mail notify attempt failed",
			zap.String(pkg.OrderCode, event.OrderCode),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
	}
	return fmt.Errorf("mail notify failed after %d attempts: %w", m.cnf.NotifyMaxAttempts, lastErr)
}

func (m *MailerImpl) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cnf.NotifyURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify endpoint returned %d", resp.StatusCode)
	}
	return nil
}
