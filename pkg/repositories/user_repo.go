package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	// ExistsTx checks presence inside the order transaction.
	ExistsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error)

	CreateAddress(ctx context.Context, address *models.Address) error
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	// AddressBelongsToUserTx verifies the address exists and is owned by the
	// ordering user, inside the order transaction.
	AddressBelongsToUserTx(ctx context.Context, tx pgx.Tx, addressID, userID uuid.UUID) (bool, error)
}

type UserRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (u UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	return u.db.QueryRowWriter(ctx, `
		INSERT INTO users (email, full_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Email, user.FullName, user.Phone, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
}

func (u UserRepositoryImpl) FindByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	var user models.User
	err := u.db.QueryRow(ctx, `
		SELECT id, email, full_name, COALESCE(phone, ''), created_at, updated_at
		FROM users WHERE id = $1`, userID).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Phone, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (u UserRepositoryImpl) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := u.db.Query(ctx, `
		SELECT id, email, full_name, COALESCE(phone, ''), created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []models.User
	for rows.Next() {
		var user models.User
		if err = rows.Scan(&user.ID, &user.Email, &user.FullName, &user.Phone, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (u UserRepositoryImpl) ExistsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	return exists, err
}

func (u UserRepositoryImpl) CreateAddress(ctx context.Context, address *models.Address) error {
	return u.db.QueryRowWriter(ctx, `
		INSERT INTO addresses (user_id, line1, line2, city, country, postal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		address.UserID, address.Line1, address.Line2, address.City, address.Country, address.Postal,
		address.CreatedAt, address.UpdatedAt,
	).Scan(&address.ID)
}

func (u UserRepositoryImpl) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	rows, err := u.db.Query(ctx, `
		SELECT id, user_id, line1, COALESCE(line2, ''), city, country, COALESCE(postal, ''), created_at, updated_at
		FROM addresses WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var addresses []models.Address
	for rows.Next() {
		var a models.Address
		if err = rows.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.Country, &a.Postal, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (u UserRepositoryImpl) AddressBelongsToUserTx(ctx context.Context, tx pgx.Tx, addressID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM addresses WHERE id = $1 AND user_id = $2)`,
		addressID, userID).Scan(&exists)
	return exists, err
}
