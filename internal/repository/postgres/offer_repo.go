package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-procurement-backend/internal/domain"
)

type offerRepo struct {
	db *pgxpool.Pool
}

func NewOfferRepository(db *pgxpool.Pool) domain.OfferRepository {
	return &offerRepo{db: db}
}

const offerColumns = `id, title, description, domaine, date_limite, status, validated_at, rejected_at, created_by_id, created_at, updated_at`

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.Domaine, &o.DateLimite, &o.Status,
		&o.ValidatedAt, &o.RejectedAt, &o.CreatedByID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepo) Create(ctx context.Context, offer *domain.Offer) error {
	query := `
		INSERT INTO offers (title, description, domaine, date_limite, status, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	if offer.Status == "" {
		offer.Status = domain.OfferStatusPending
	}

	return r.db.QueryRow(ctx, query,
		offer.Title,
		offer.Description,
		offer.Domaine,
		offer.DateLimite,
		offer.Status,
		offer.CreatedByID,
		offer.CreatedAt,
		offer.UpdatedAt,
	).Scan(&offer.ID)
}

func (r *offerRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`
	return scanOffer(r.db.QueryRow(ctx, query, id))
}

func (r *offerRepo) Fetch(ctx context.Context) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func (r *offerRepo) FetchByStatus(ctx context.Context, status string, limit int) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE status = $1 ORDER BY created_at DESC`
	args := []interface{}{status}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOffers(rows)
}

func collectOffers(rows pgx.Rows) ([]domain.Offer, error) {
	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.Domaine, &o.DateLimite, &o.Status,
			&o.ValidatedAt, &o.RejectedAt, &o.CreatedByID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// UpdateStatus re-stamps validated_at or rejected_at; transitions are freely
// re-settable, so neither timestamp is ever cleared implicitly by a guard.
func (r *offerRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Offer, error) {
	var query string
	switch status {
	case domain.OfferStatusValidated:
		query = `
			UPDATE offers SET status = $2, validated_at = $3, updated_at = $3
			WHERE id = $1
			RETURNING ` + offerColumns
	case domain.OfferStatusRejected:
		query = `
			UPDATE offers SET status = $2, rejected_at = $3, updated_at = $3
			WHERE id = $1
			RETURNING ` + offerColumns
	default:
		query = `
			UPDATE offers SET status = $2, updated_at = $3
			WHERE id = $1
			RETURNING ` + offerColumns
	}
	return scanOffer(r.db.QueryRow(ctx, query, id, status, time.Now()))
}

func (r *offerRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
