package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-procurement-backend/internal/domain"
)

type candidatureRepo struct {
	db *pgxpool.Pool
}

func NewCandidatureRepository(db *pgxpool.Pool) domain.CandidatureRepository {
	return &candidatureRepo{db: db}
}

const candidatureColumns = `id, message, document_ref, status, entreprise_id, offer_id, created_at, updated_at`

func (r *candidatureRepo) Create(ctx context.Context, c *domain.Candidature) error {
	query := `
		INSERT INTO candidatures (message, document_ref, status, entreprise_id, offer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = domain.CandidatureStatusPending
	}

	err := r.db.QueryRow(ctx, query,
		c.Message,
		c.DocumentRef,
		c.Status,
		c.EntrepriseID,
		c.OfferID,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// UNIQUE (entreprise_id, offer_id)
			return domain.ErrDuplicateCandidature
		}
		return err
	}
	return nil
}

func (r *candidatureRepo) GetByID(ctx context.Context, id int64) (*domain.Candidature, error) {
	query := `SELECT ` + candidatureColumns + ` FROM candidatures WHERE id = $1`

	var c domain.Candidature
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Message, &c.DocumentRef, &c.Status, &c.EntrepriseID, &c.OfferID, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByOfferID returns all candidatures for an offer with the minimal
// applicant identity joined in, newest first.
func (r *candidatureRepo) GetByOfferID(ctx context.Context, offerID int64) ([]domain.Candidature, error) {
	query := `
		SELECT
			c.id, c.message, c.document_ref, c.status, c.entreprise_id, c.offer_id, c.created_at, c.updated_at,
			u.id, u.username, u.email, u.company_name, u.nom
		FROM candidatures c
		JOIN users u ON c.entreprise_id = u.id
		WHERE c.offer_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidatures []domain.Candidature
	for rows.Next() {
		var c domain.Candidature
		var applicant domain.CandidatureApplicant
		if err := rows.Scan(
			&c.ID, &c.Message, &c.DocumentRef, &c.Status, &c.EntrepriseID, &c.OfferID, &c.CreatedAt, &c.UpdatedAt,
			&applicant.ID, &applicant.Username, &applicant.Email, &applicant.CompanyName, &applicant.Nom,
		); err != nil {
			return nil, err
		}
		c.Entreprise = &applicant
		candidatures = append(candidatures, c)
	}
	return candidatures, rows.Err()
}

// GetByEntrepriseID returns the entreprise's own candidatures with the
// minimal offer identity joined in, newest first.
func (r *candidatureRepo) GetByEntrepriseID(ctx context.Context, entrepriseID int64) ([]domain.Candidature, error) {
	query := `
		SELECT
			c.id, c.message, c.document_ref, c.status, c.entreprise_id, c.offer_id, c.created_at, c.updated_at,
			o.id, o.title, o.status, o.description, o.domaine
		FROM candidatures c
		JOIN offers o ON c.offer_id = o.id
		WHERE c.entreprise_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query, entrepriseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidatures []domain.Candidature
	for rows.Next() {
		var c domain.Candidature
		var offer domain.CandidatureOffer
		if err := rows.Scan(
			&c.ID, &c.Message, &c.DocumentRef, &c.Status, &c.EntrepriseID, &c.OfferID, &c.CreatedAt, &c.UpdatedAt,
			&offer.ID, &offer.Title, &offer.Status, &offer.Description, &offer.Domaine,
		); err != nil {
			return nil, err
		}
		c.Offer = &offer
		candidatures = append(candidatures, c)
	}
	return candidatures, rows.Err()
}

func (r *candidatureRepo) Exists(ctx context.Context, entrepriseID, offerID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM candidatures WHERE entreprise_id = $1 AND offer_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, entrepriseID, offerID).Scan(&exists)
	return exists, err
}

// acceptLost reports the errors that mean another accept won the race:
// the partial unique index on accepted rows (23505) or a deadlock abort
// between two concurrent accept transactions (40P01).
func acceptLost(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "40P01")
}

// Accept performs the exclusive acceptance inside one transaction. Accepts
// are serialized per offer by locking the parent offer row before anything
// else; the loser of a race blocks there, re-checks after the winner commits
// and lands on the accepted-sibling path. The partial unique index on
// (offer_id) WHERE status='accepted' backstops the re-check.
func (r *candidatureRepo) Accept(ctx context.Context, id int64) (*domain.Candidature, int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	var offerID int64
	err = tx.QueryRow(ctx, `SELECT offer_id FROM candidatures WHERE id = $1`, id).Scan(&offerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, domain.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	// offer_id never changes, so locking the offer after reading it is safe
	if _, err := tx.Exec(ctx, `SELECT id FROM offers WHERE id = $1 FOR UPDATE`, offerID); err != nil {
		return nil, 0, err
	}

	var taken bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM candidatures WHERE offer_id = $1 AND status = $2 AND id <> $3)`,
		offerID, domain.CandidatureStatusAccepted, id,
	).Scan(&taken)
	if err != nil {
		return nil, 0, err
	}
	if taken {
		return nil, 0, domain.ErrAlreadyAccepted
	}

	now := time.Now()

	var c domain.Candidature
	err = tx.QueryRow(ctx,
		`UPDATE candidatures SET status = $2, updated_at = $3 WHERE id = $1 RETURNING `+candidatureColumns,
		id, domain.CandidatureStatusAccepted, now,
	).Scan(&c.ID, &c.Message, &c.DocumentRef, &c.Status, &c.EntrepriseID, &c.OfferID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if acceptLost(err) {
			return nil, 0, domain.ErrAlreadyAccepted
		}
		return nil, 0, err
	}

	cascade, err := tx.Exec(ctx,
		`UPDATE candidatures SET status = $3, updated_at = $4
		 WHERE offer_id = $1 AND id <> $2 AND status = $5`,
		offerID, id, domain.CandidatureStatusRejected, now, domain.CandidatureStatusPending,
	)
	if err != nil {
		if acceptLost(err) {
			return nil, 0, domain.ErrAlreadyAccepted
		}
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		if acceptLost(err) {
			return nil, 0, domain.ErrAlreadyAccepted
		}
		return nil, 0, err
	}
	return &c, cascade.RowsAffected(), nil
}

func (r *candidatureRepo) Reject(ctx context.Context, id int64) (*domain.Candidature, error) {
	var c domain.Candidature
	err := r.db.QueryRow(ctx,
		`UPDATE candidatures SET status = $2, updated_at = $3 WHERE id = $1 RETURNING `+candidatureColumns,
		id, domain.CandidatureStatusRejected, time.Now(),
	).Scan(&c.ID, &c.Message, &c.DocumentRef, &c.Status, &c.EntrepriseID, &c.OfferID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
