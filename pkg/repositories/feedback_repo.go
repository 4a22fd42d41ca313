package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/models"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Feedback, error)
	List(ctx context.Context, limit, offset int) ([]models.Feedback, error)
	Delete(ctx context.Context, feedbackID uuid.UUID) (bool, error)
}

type FeedbackRepositoryImpl struct {
	db *database.DB
}

func NewFeedbackRepository(db *database.DB) FeedbackRepository {
	return &FeedbackRepositoryImpl{db: db}
}

func (f FeedbackRepositoryImpl) Create(ctx context.Context, feedback *models.Feedback) error {
	return f.db.QueryRowWriter(ctx, `
		INSERT INTO feedback (user_id, product_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		nullableUUID(feedback.UserID), feedback.ProductID, feedback.Rating, feedback.Comment, feedback.CreatedAt,
	).Scan(&feedback.ID)
}

func (f FeedbackRepositoryImpl) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Feedback, error) {
	rows, err := f.db.Query(ctx, `
		SELECT id, COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid), product_id, rating, COALESCE(comment, ''), created_at
		FROM feedback WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeedback(rows)
}

func (f FeedbackRepositoryImpl) List(ctx context.Context, limit, offset int) ([]models.Feedback, error) {
	rows, err := f.db.Query(ctx, `
		SELECT id, COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid), product_id, rating, COALESCE(comment, ''), created_at
		FROM feedback ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFeedback(rows)
}

func (f FeedbackRepositoryImpl) Delete(ctx context.Context, feedbackID uuid.UUID) (bool, error) {
	tag, err := f.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, feedbackID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanFeedback(rows pgx.Rows) ([]models.Feedback, error) {
	var items []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.ProductID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}
