package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WebhookService reconciles asynchronous payment-gateway callbacks with
// order rows and fans the result out through Kafka.
type WebhookService interface {
	// HandleGatewayEvent processes one webhook delivery. rawBody is the
	// unparsed request body used for signature verification; payload is the
	// decoded JSON. Returns the order code on success.
	HandleGatewayEvent(ctx context.Context, traceID, signature string, rawBody []byte, payload map[string]interface{}) (string, error)
}

type WebhookServiceImpl struct {
	logger      *zap.Logger
	cnf         *configs.Config
	db          *database.DB
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	publisher   PaymentEventPublisher
	redisClient *redis.Client
}

func NewWebhookService(logger *zap.Logger, cnf *configs.Config, db *database.DB, orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, publisher PaymentEventPublisher, redisClient *redis.Client) WebhookService {
	return &WebhookServiceImpl{
		logger:      logger,
		cnf:         cnf,
		db:          db,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		redisClient: redisClient,
	}
}

func (s *WebhookServiceImpl) HandleGatewayEvent(ctx context.Context, traceID, signature string, rawBody []byte, payload map[string]interface{}) (string, error) {
	if err := s.verifySignature(signature, rawBody); err != nil {
		return "", err
	}

	code := pkg.ExtractOrderCodeFromPayload(payload)
	if code == "" {
		s.logger.Warn("webhook payload without order code", zap.String(pkg.TraceId, traceID))
		return "", pkg.NewAppError(pkg.ErrOrderCodeMissing, "order code not found in payload", pkg.ErrNoOrderCode)
	}

	// Gateways redeliver; the first delivery per (code, event id) claims the
	// slot. A claim held by a delivery that failed to reconcile is released
	// below, so the gateway's retry is processed instead of swallowed.
	key := dedupKey(code, payload)
	if claimed, err := s.claimDelivery(ctx, key); err != nil {
		s.logger.Error("webhook dedup check failed; continuing",
			zap.String(pkg.TraceId, traceID), zap.Error(err))
	} else if !claimed {
		s.logger.Info("duplicate webhook delivery ignored",
			zap.String(pkg.TraceId, traceID), zap.String(pkg.OrderCode, code))
		return code, nil
	}

	method := paymentMethodOf(payload)
	var event pkgviews.PaymentEvent
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		order, err := s.orderRepo.MarkPaid(ctx, tx, code, method)
		if err != nil {
			return pkg.HandleSQLError(traceID, s.logger, err)
		}
		event = order.ToPaymentEvent()
		user, err := s.userRepo.FindByID(ctx, order.UserID)
		if err == nil {
			event.Email = user.Email
		}
		return nil
	})
	if err != nil {
		s.releaseDelivery(ctx, traceID, key)
		return "", err
	}

	if err := s.publisher.PublishPaymentEvent(event); err != nil {
		// The order row is already SUCCESS; notification delivery is
		// best-effort and the stream TTL covers the lost event.
		s.logger.Error("failed to publish payment event",
			zap.String(pkg.TraceId, traceID),
			zap.String(pkg.OrderCode, code),
			zap.Error(err))
	}

	s.logger.Info("order reconciled from webhook",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.OrderCode, code),
		zap.String("paymentMethod", method),
	)
	return code, nil
}

func (s *WebhookServiceImpl) verifySignature(signature string, rawBody []byte) error {
	if pkg.IsEmptyString(s.cnf.WebhookSecret) {
		return nil // verification disabled
	}
	mac := hmac.New(sha256.New, []byte(s.cnf.WebhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return pkg.NewAppError(pkg.ErrUnauthorizedCode, "invalid webhook signature", nil)
	}
	return nil
}

// dedupKey identifies one gateway delivery. Event id falls back to the
// order code when the gateway sends none.
func dedupKey(code string, payload map[string]interface{}) string {
	eventID := code
	for _, key := range []string{"eventId", "id", "transactionId"} {
		if v, ok := payload[key].(string); ok && v != "" {
			eventID = v
			break
		}
	}
	return "webhook:" + code + ":" + eventID
}

// claimDelivery records the delivery via SETNX with TTL. Returns false when
// an earlier delivery already holds the claim.
func (s *WebhookServiceImpl) claimDelivery(ctx context.Context, key string) (bool, error) {
	if s.redisClient == nil {
		return true, nil
	}
	return s.redisClient.SetNX(ctx, key, time.Now().Unix(), s.cnf.WebhookDedupTTL).Result()
}

// releaseDelivery drops the claim of a delivery that failed to reconcile.
// Without the release the claim would outlive the failure for the full dedup
// TTL and the gateway's retry would be answered 200 with the order still
// PENDING.
func (s *WebhookServiceImpl) releaseDelivery(ctx context.Context, traceID, key string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.logger.Error("failed to release webhook dedup claim",
			zap.String(pkg.TraceId, traceID),
			zap.String("dedupKey", key),
			zap.Error(err))
	}
}

func paymentMethodOf(payload map[string]interface{}) string {
	for _, key := range []string{"gateway", "paymentMethod", "method", "provider"} {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return "gateway"
}
