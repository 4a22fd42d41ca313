package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/models"
)

type OrderRepository interface {
	// NextOrderCode reserves the next order code from the shared sequence.
	NextOrderCode(ctx context.Context, tx pgx.Tx) (string, error)
	// Create inserts the order row and its items.
	Create(ctx context.Context, tx pgx.Tx, order *models.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (models.Order, error)
	// FindByCode looks an order up by its indexed order code.
	FindByCode(ctx context.Context, code string) (models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Order, error)
	// MarkPaid transitions the order to SUCCESS and records the payment
	// method. Returns the updated row.
	MarkPaid(ctx context.Context, tx pgx.Tx, code, paymentMethod string) (models.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status pkg.OrderStatus) error
}

type OrderRepositoryImpl struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (o OrderRepositoryImpl) NextOrderCode(ctx context.Context, tx pgx.Tx) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_code_seq')`).Scan(&seq); err != nil {
		return "", err
	}
	return pkg.FormatOrderCode(seq), nil
}

func (o OrderRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, order *models.Order) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO orders (order_code, user_id, address_id, amount, description, payment_method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		order.OrderCode,
		order.UserID,
		order.AddressID,
		order.Amount,
		order.Description,
		order.PaymentMethod,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			order.ID,
			order.Items[i].ProductID,
			order.Items[i].Quantity,
			order.Items[i].UnitPrice,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

const orderColumns = `id, order_code, user_id, address_id, amount, description, COALESCE(payment_method, ''), status, created_at, updated_at`

func (o OrderRepositoryImpl) FindByID(ctx context.Context, orderID uuid.UUID) (models.Order, error) {
	row := o.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		return models.Order{}, err
	}
	order.Items, err = o.loadItems(ctx, order.ID)
	return order, err
}

func (o OrderRepositoryImpl) FindByCode(ctx context.Context, code string) (models.Order, error) {
	row := o.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_code = $1`, code)
	return scanOrder(row)
}

func (o OrderRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	rows, err := o.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (o OrderRepositoryImpl) List(ctx context.Context, status string, limit, offset int) ([]models.Order, error) {
	rows, err := o.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (o OrderRepositoryImpl) MarkPaid(ctx context.Context, tx pgx.Tx, code, paymentMethod string) (models.Order, error) {
	row := tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, payment_method = $2, updated_at = $3
		WHERE order_code = $4
		RETURNING `+orderColumns,
		pkg.OrderStatusSuccess, paymentMethod, time.Now(), code)
	return scanOrder(row)
}

func (o OrderRepositoryImpl) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status pkg.OrderStatus) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), orderID)
	return err
}

func (o OrderRepositoryImpl) loadItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := o.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err = rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID,
		&order.OrderCode,
		&order.UserID,
		&order.AddressID,
		&order.Amount,
		&order.Description,
		&order.PaymentMethod,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	return order, err
}

func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
