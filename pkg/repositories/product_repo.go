package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, productID uuid.UUID) (models.Product, error)
	List(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]models.Product, error)
	Update(ctx context.Context, product models.Product) (bool, error)
	Delete(ctx context.Context, productID uuid.UUID) (bool, error)
	// DecrementStock atomically takes qty units off the shelf. Returns false
	// when available stock is below qty; the guarded UPDATE is what makes
	// concurrent last-unit orders race-safe.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) (bool, error)
	// PriceOf reads the current price inside the order transaction.
	PriceOf(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (int64, error)
}

type ProductRepositoryImpl struct {
	db *database.DB
}

func NewProductRepository(db *database.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

const productColumns = `id, COALESCE(category_id, '00000000-0000-0000-0000-000000000000'::uuid), name, COALESCE(description, ''), COALESCE(image_url, ''), price, quantity, created_at, updated_at`

func (p ProductRepositoryImpl) Create(ctx context.Context, product *models.Product) error {
	return p.db.QueryRowWriter(ctx, `
		INSERT INTO products (category_id, name, description, image_url, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		nullableUUID(product.CategoryID),
		product.Name,
		product.Description,
		product.ImageURL,
		product.Price,
		product.Quantity,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
}

func (p ProductRepositoryImpl) FindByID(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	row := p.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	return scanProduct(row)
}

func (p ProductRepositoryImpl) List(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]models.Product, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE ($1::uuid IS NULL OR category_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, nullableUUID(categoryID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (p ProductRepositoryImpl) Update(ctx context.Context, product models.Product) (bool, error) {
	tag, err := p.db.Exec(ctx, `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, image_url = $4, price = $5, quantity = $6, updated_at = $7
		WHERE id = $8`,
		nullableUUID(product.CategoryID),
		product.Name,
		product.Description,
		product.ImageURL,
		product.Price,
		product.Quantity,
		time.Now(),
		product.ID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p ProductRepositoryImpl) Delete(ctx context.Context, productID uuid.UUID) (bool, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p ProductRepositoryImpl) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET quantity = quantity - $1, updated_at = $2
		WHERE id = $3 AND quantity >= $1`,
		qty, time.Now(), productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p ProductRepositoryImpl) PriceOf(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (int64, error) {
	var price int64
	err := tx.QueryRow(ctx, `SELECT price FROM products WHERE id = $1`, productID).Scan(&price)
	return price, err
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var product models.Product
	err := row.Scan(
		&product.ID,
		&product.CategoryID,
		&product.Name,
		&product.Description,
		&product.ImageURL,
		&product.Price,
		&product.Quantity,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	return product, err
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}
