package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-procurement-backend/internal/domain"
)

type dashboardRepo struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) domain.DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) UserStats(ctx context.Context) (*domain.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'entreprise'),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'ministere'),
			COUNT(*) FILTER (WHERE role = 'ministerepublique')
		FROM users`

	var s domain.UserStats
	err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Entreprise, &s.Admin, &s.Ministere, &s.MinisterePublique)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *dashboardRepo) OfferStats(ctx context.Context) (*domain.OfferStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'validated'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM offers`

	var s domain.OfferStats
	err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Validated, &s.Pending, &s.Rejected)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *dashboardRepo) CandidatureStats(ctx context.Context) (*domain.CandidatureStats, error) {
	return r.candidatureStats(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM candidatures`)
}

func (r *dashboardRepo) CandidatureStatsForEntreprise(ctx context.Context, entrepriseID int64) (*domain.CandidatureStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM candidatures
		WHERE entreprise_id = $1`

	var s domain.CandidatureStats
	err := r.db.QueryRow(ctx, query, entrepriseID).Scan(&s.Total, &s.Pending, &s.Accepted, &s.Rejected)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *dashboardRepo) candidatureStats(ctx context.Context, query string) (*domain.CandidatureStats, error) {
	var s domain.CandidatureStats
	err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Pending, &s.Accepted, &s.Rejected)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MonthlyCreations returns user and offer creation counts for the trailing
// window, oldest month first. Months with no activity still appear with
// zero counts.
func (r *dashboardRepo) MonthlyCreations(ctx context.Context, months int) ([]domain.MonthlyCount, error) {
	query := `
		WITH months AS (
			SELECT date_trunc('month', now()) - (interval '1 month' * s) AS month
			FROM generate_series($1::int - 1, 0, -1) AS s
		)
		SELECT
			to_char(m.month, 'YYYY-MM'),
			(SELECT COUNT(*) FROM users u WHERE date_trunc('month', u.created_at) = m.month),
			(SELECT COUNT(*) FROM offers o WHERE date_trunc('month', o.created_at) = m.month)
		FROM months m
		ORDER BY m.month`

	rows, err := r.db.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.MonthlyCount
	for rows.Next() {
		var c domain.MonthlyCount
		if err := rows.Scan(&c.Month, &c.Users, &c.Offers); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *dashboardRepo) RecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Nom, &u.Email, &u.Password, &u.Role, &u.CompanyName, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// RecentOffers joins the creator identity so the ministry dashboard can show
// who published each tender.
func (r *dashboardRepo) RecentOffers(ctx context.Context, limit int) ([]domain.Offer, error) {
	query := `
		SELECT
			o.id, o.title, o.description, o.domaine, o.date_limite, o.status,
			o.validated_at, o.rejected_at, o.created_by_id, o.created_at, o.updated_at,
			u.nom, COALESCE(u.company_name, u.username)
		FROM offers o
		JOIN users u ON o.created_by_id = u.id
		ORDER BY o.created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		var company string
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.Domaine, &o.DateLimite, &o.Status,
			&o.ValidatedAt, &o.RejectedAt, &o.CreatedByID, &o.CreatedAt, &o.UpdatedAt,
			&o.CreatorName, &company); err != nil {
			return nil, err
		}
		o.CreatorCompany = &company
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *dashboardRepo) RecentCandidatures(ctx context.Context, limit int) ([]domain.Candidature, error) {
	query := `SELECT ` + candidatureColumns + ` FROM candidatures ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidatures []domain.Candidature
	for rows.Next() {
		var c domain.Candidature
		if err := rows.Scan(&c.ID, &c.Message, &c.DocumentRef, &c.Status, &c.EntrepriseID, &c.OfferID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		candidatures = append(candidatures, c)
	}
	return candidatures, rows.Err()
}
