package domain

import "context"

// UserStats counts users per role.
type UserStats struct {
	Total             int64 `json:"total"`
	Entreprise        int64 `json:"entreprise"`
	Admin             int64 `json:"admin"`
	Ministere         int64 `json:"ministere"`
	MinisterePublique int64 `json:"ministerepublique"`
}

// OfferStats counts offers per status.
type OfferStats struct {
	Total     int64 `json:"total"`
	Validated int64 `json:"validated"`
	Pending   int64 `json:"pending"`
	Rejected  int64 `json:"rejected"`
}

// CandidatureStats counts candidatures per status.
type CandidatureStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}

// MonthlyCount is one point of the trailing-window chart data.
type MonthlyCount struct {
	Month  string `json:"month"` // e.g. "2026-04"
	Users  int64  `json:"users"`
	Offers int64  `json:"offers"`
}

// EntrepriseDashboard aggregates the applicant-side view: latest published
// offers plus the entreprise's own candidatures and their status counts.
type EntrepriseDashboard struct {
	Offers       []Offer          `json:"offers"`
	Candidatures []Candidature    `json:"candidatures"`
	Stats        CandidatureStats `json:"stats"`
	OffersTotal  int64            `json:"offers_total"`
}

// MinistereDashboard aggregates the ministry-side view.
type MinistereDashboard struct {
	Users        []User         `json:"users"`
	Offers       []Offer        `json:"offers"`
	Candidatures []Candidature  `json:"candidatures"`
	Stats        DashboardStats `json:"stats"`
	ChartData    []MonthlyCount `json:"chartData"`
}

type DashboardStats struct {
	Users        UserStats        `json:"users"`
	Offers       OfferStats       `json:"offers"`
	Candidatures CandidatureStats `json:"candidatures"`
}

// DashboardRepository runs the read-only aggregate queries.
type DashboardRepository interface {
	UserStats(ctx context.Context) (*UserStats, error)
	OfferStats(ctx context.Context) (*OfferStats, error)
	CandidatureStats(ctx context.Context) (*CandidatureStats, error)
	CandidatureStatsForEntreprise(ctx context.Context, entrepriseID int64) (*CandidatureStats, error)
	MonthlyCreations(ctx context.Context, months int) ([]MonthlyCount, error)
	RecentUsers(ctx context.Context, limit int) ([]User, error)
	RecentOffers(ctx context.Context, limit int) ([]Offer, error)
	RecentCandidatures(ctx context.Context, limit int) ([]Candidature, error)
}

type DashboardUsecase interface {
	EntrepriseDashboard(ctx context.Context, entrepriseID int64) (*EntrepriseDashboard, error)
	MinistereDashboard(ctx context.Context) (*MinistereDashboard, error)
}
