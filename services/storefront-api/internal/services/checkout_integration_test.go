package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startStorefrontDB spins up a disposable Postgres, applies the embedded
// migrations and returns the routed pool plus a raw connection for seeding
// and assertions.
func startStorefrontDB(t *testing.T) (*database.DB, *pgx.Conn) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test requires docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const (
		user     = "db_user"
		password = "db_password"
		dbName   = "shopfront"
	)
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       dbName,
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres test container: %v", err)
	}
	t.Cleanup(func() {
		ctx, c := context.WithTimeout(context.Background(), 15*time.Second)
		defer c()
		_ = pgC.Terminate(ctx)
	})

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	// database.New and RunMigrations both prepend the protocol themselves.
	dsn := fmt.Sprintf("%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName)

	logger := zap.NewNop()
	if err := database.RunMigrations(logger, dsn); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	db, closeDB, err := database.New(ctx, logger, database.Config{
		PrimaryDSN: dsn,
		MaxConns:   4,
		MinConns:   1,
	})
	if err != nil {
		t.Fatalf("failed to build connection pools: %v", err)
	}
	t.Cleanup(closeDB)

	conn, err := pgx.Connect(ctx, "postgres://"+dsn)
	if err != nil {
		t.Fatalf("failed to connect for seeding: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(context.Background()) })
	return db, conn
}

func seedCustomer(t *testing.T, conn *pgx.Conn) (userID, addressID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	email := fmt.Sprintf("%s@example.com", uuid.NewString())
	err := conn.QueryRow(ctx,
		`INSERT INTO users (email, full_name) VALUES ($1, $2) RETURNING id`,
		email, "Test Customer").Scan(&userID)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	err = conn.QueryRow(ctx,
		`INSERT INTO addresses (user_id, line1, city, country) VALUES ($1, $2, $3, $4) RETURNING id`,
		userID, "1 Main St", "Hanoi", "VN").Scan(&addressID)
	if err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return userID, addressID
}

func seedProduct(t *testing.T, conn *pgx.Conn, price int64, stock int) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := conn.QueryRow(context.Background(),
		`INSERT INTO products (name, price, quantity) VALUES ($1, $2, $3) RETURNING id`,
		"Shirt "+uuid.NewString(), price, stock).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

func stockOf(t *testing.T, conn *pgx.Conn, productID uuid.UUID) int {
	t.Helper()
	var qty int
	err := conn.QueryRow(context.Background(),
		`SELECT quantity FROM products WHERE id = $1`, productID).Scan(&qty)
	if err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return qty
}

func orderRow(t *testing.T, conn *pgx.Conn, code string) (status, paymentMethod string) {
	t.Helper()
	var method *string
	err := conn.QueryRow(context.Background(),
		`SELECT status, payment_method FROM orders WHERE order_code = $1`, code).Scan(&status, &method)
	if err != nil {
		t.Fatalf("failed to read order %s: %v", code, err)
	}
	if method != nil {
		paymentMethod = *method
	}
	return status, paymentMethod
}

func countOrders(t *testing.T, conn *pgx.Conn) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(context.Background(), `SELECT count(*) FROM orders`).Scan(&n); err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	return n
}

func newCheckoutService(db *database.DB) OrderService {
	return NewOrderService(zap.NewNop(), db,
		repositories.NewOrderRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewUserRepository(db))
}

type capturePublisher struct {
	mu     sync.Mutex
	events []pkgviews.PaymentEvent
}

func (p *capturePublisher) PublishPaymentEvent(event pkgviews.PaymentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() {}

func (p *capturePublisher) published() []pkgviews.PaymentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pkgviews.PaymentEvent(nil), p.events...)
}

func newGatewayService(t *testing.T, db *database.DB, pub PaymentEventPublisher) WebhookService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWebhookService(zap.NewNop(),
		&configs.Config{WebhookDedupTTL: time.Hour},
		db,
		repositories.NewOrderRepository(db),
		repositories.NewUserRepository(db),
		pub, client)
}

func checkoutRequest(userID, addressID, productID uuid.UUID, qty int, amount int64) views.CreateOrderRequest {
	return views.CreateOrderRequest{
		Amount:      amount,
		UserID:      userID.String(),
		AddressID:   addressID.String(),
		Description: "integration checkout",
		Products:    []views.OrderLine{{ID: productID.String(), Quantity: qty}},
	}
}

func TestCreateOrder_DecrementsStockExactly(t *testing.T) {
	db, conn := startStorefrontDB(t)
	userID, addressID := seedCustomer(t, conn)
	productID := seedProduct(t, conn, 50000, 10)
	svc := newCheckoutService(db)

	order, err := svc.CreateOrder(context.Background(), "trace",
		checkoutRequest(userID, addressID, productID, 2, 100000))

	assert.NoError(t, err)
	assert.Equal(t, "PENDING", order.Status)
	assert.NotEmpty(t, order.OrderCode)
	assert.Equal(t, 8, stockOf(t, conn, productID))
}

func TestCreateOrder_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	db, conn := startStorefrontDB(t)
	userID, addressID := seedCustomer(t, conn)
	okProduct := seedProduct(t, conn, 50000, 5)
	scarceProduct := seedProduct(t, conn, 20000, 1)
	svc := newCheckoutService(db)

	req := views.CreateOrderRequest{
		Amount:      160000,
		UserID:      userID.String(),
		AddressID:   addressID.String(),
		Description: "mixed cart",
		Products: []views.OrderLine{
			{ID: okProduct.String(), Quantity: 2},
			{ID: scarceProduct.String(), Quantity: 3},
		},
	}
	_, err := svc.CreateOrder(context.Background(), "trace", req)

	var appErr pkg.AppError
	assert.Error(t, err)
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkg.ErrOutOfStockCode, appErr.Code)
	// The first line's decrement is rolled back along with the order.
	assert.Equal(t, 5, stockOf(t, conn, okProduct))
	assert.Equal(t, 1, stockOf(t, conn, scarceProduct))
	assert.Equal(t, 0, countOrders(t, conn))
}

func TestCreateOrder_LastUnitHasSingleWinner(t *testing.T) {
	db, conn := startStorefrontDB(t)
	userID, addressID := seedCustomer(t, conn)
	productID := seedProduct(t, conn, 50000, 1)
	svc := newCheckoutService(db)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateOrder(context.Background(), "trace",
				checkoutRequest(userID, addressID, productID, 1, 50000))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			var appErr pkg.AppError
			assert.True(t, errors.As(err, &appErr))
			assert.Equal(t, pkg.ErrOutOfStockCode, appErr.Code)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, stockOf(t, conn, productID))
	assert.Equal(t, 1, countOrders(t, conn))
}

func TestHandleGatewayEvent_ReconcilesAndDedups(t *testing.T) {
	db, conn := startStorefrontDB(t)
	userID, addressID := seedCustomer(t, conn)
	productID := seedProduct(t, conn, 50000, 3)
	order, err := newCheckoutService(db).CreateOrder(context.Background(), "trace",
		checkoutRequest(userID, addressID, productID, 1, 50000))
	assert.NoError(t, err)

	pub := &capturePublisher{}
	gw := newGatewayService(t, db, pub)
	payload := map[string]interface{}{
		"description": fmt.Sprintf("Payment for %s completed", order.OrderCode),
		"gateway":     "VNPay",
		"eventId":     "evt-1",
	}

	code, err := gw.HandleGatewayEvent(context.Background(), "trace", "", []byte("{}"), payload)
	assert.NoError(t, err)
	assert.Equal(t, order.OrderCode, code)

	status, method := orderRow(t, conn, order.OrderCode)
	assert.Equal(t, "SUCCESS", status)
	assert.Equal(t, "VNPay", method)
	events := pub.published()
	assert.Len(t, events, 1)
	assert.Equal(t, order.OrderCode, events[0].OrderCode)

	// Redelivery of the same event is acknowledged but processed once.
	code, err = gw.HandleGatewayEvent(context.Background(), "trace", "", []byte("{}"), payload)
	assert.NoError(t, err)
	assert.Equal(t, order.OrderCode, code)
	assert.Len(t, pub.published(), 1)
}

func TestHandleGatewayEvent_RetryAfterFailedDeliverySucceeds(t *testing.T) {
	db, conn := startStorefrontDB(t)
	userID, addressID := seedCustomer(t, conn)

	pub := &capturePublisher{}
	gw := newGatewayService(t, db, pub)
	payload := map[string]interface{}{
		"description": "Payment for ORD9901 completed",
		"eventId":     "evt-retry",
	}

	// First delivery arrives before the order row exists and fails.
	_, err := gw.HandleGatewayEvent(context.Background(), "trace", "", []byte("{}"), payload)
	var appErr pkg.AppError
	assert.Error(t, err)
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkg.ErrRecordNotFoundCode, appErr.Code)

	_, err = conn.Exec(context.Background(),
		`INSERT INTO orders (order_code, user_id, address_id, amount, description, status)
		 VALUES ($1, $2, $3, $4, $5, 'PENDING')`,
		"ORD9901", userID, addressID, int64(1000), "ORD9901")
	assert.NoError(t, err)

	// The gateway retries the identical delivery. The failed attempt must
	// not hold the dedup claim, so this one reconciles the order.
	code, err := gw.HandleGatewayEvent(context.Background(), "trace", "", []byte("{}"), payload)
	assert.NoError(t, err)
	assert.Equal(t, "ORD9901", code)
	status, _ := orderRow(t, conn, "ORD9901")
	assert.Equal(t, "SUCCESS", status)
	assert.Len(t, pub.published(), 1)
}

func TestHandleGatewayEvent_NoCodeLeavesOrdersUntouched(t *testing.T) {
	db, conn := startStorefrontDB(t)
	userID, addressID := seedCustomer(t, conn)
	productID := seedProduct(t, conn, 50000, 2)
	order, err := newCheckoutService(db).CreateOrder(context.Background(), "trace",
		checkoutRequest(userID, addressID, productID, 1, 50000))
	assert.NoError(t, err)

	gw := newGatewayService(t, db, &capturePublisher{})
	_, err = gw.HandleGatewayEvent(context.Background(), "trace", "", []byte("{}"),
		map[string]interface{}{"description": "thanks for shopping"})

	var appErr pkg.AppError
	assert.Error(t, err)
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkg.ErrOrderCodeMissing, appErr.Code)
	status, _ := orderRow(t, conn, order.OrderCode)
	assert.Equal(t, "PENDING", status)
}
