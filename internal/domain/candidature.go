package domain

import (
	"context"
	"errors"
	"time"
)

// Candidature status constants
const (
	CandidatureStatusPending  = "pending"
	CandidatureStatusAccepted = "accepted"
	CandidatureStatusRejected = "rejected"
)

// ErrAlreadyAccepted is returned when another candidature on the same offer
// already holds the acceptance.
var ErrAlreadyAccepted = errors.New("another candidature is already accepted for this offer")

// ErrDuplicateCandidature is returned on a second submission for the same
// (entreprise, offer) pair.
var ErrDuplicateCandidature = errors.New("candidature already exists for this offer")

// Candidature is an application submitted by an entreprise against one offer.
type Candidature struct {
	ID           int64     `json:"id"`
	Message      *string   `json:"message,omitempty"`
	DocumentRef  *string   `json:"document_ref,omitempty"`
	Status       string    `json:"status"` // pending, then accepted or rejected
	EntrepriseID int64     `json:"entreprise_id"`
	OfferID      int64     `json:"offer_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Joined data for list responses
	Entreprise *CandidatureApplicant `json:"entreprise,omitempty"`
	Offer      *CandidatureOffer     `json:"offer,omitempty"`
}

// CandidatureApplicant is the minimal applicant identity joined into
// ministry-facing listings.
type CandidatureApplicant struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	CompanyName *string `json:"company_name,omitempty"`
	Nom         *string `json:"nom,omitempty"`
}

// CandidatureOffer is the minimal offer identity joined into the
// applicant's own listings.
type CandidatureOffer struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Domaine     string `json:"domaine"`
}

// SubmitCandidatureInput carries the submission payload. At least one of
// Message or DocumentRef must be present.
type SubmitCandidatureInput struct {
	OfferID     int64
	Message     string
	DocumentRef string
}

// StatusUpdateResult pairs the updated candidature with the number of
// siblings auto-rejected by the acceptance cascade.
type StatusUpdateResult struct {
	Candidature  *Candidature `json:"candidature"`
	AutoRejected int64        `json:"autoRejected"`
}

type CandidatureRepository interface {
	Create(ctx context.Context, c *Candidature) error
	GetByID(ctx context.Context, id int64) (*Candidature, error)
	GetByOfferID(ctx context.Context, offerID int64) ([]Candidature, error)
	GetByEntrepriseID(ctx context.Context, entrepriseID int64) ([]Candidature, error)
	Exists(ctx context.Context, entrepriseID, offerID int64) (bool, error)
	// Accept marks the candidature accepted and rejects every pending sibling
	// on the same offer inside one transaction. It returns the number of
	// auto-rejected siblings, or ErrAlreadyAccepted when the acceptance is
	// already held by another candidature.
	Accept(ctx context.Context, id int64) (*Candidature, int64, error)
	Reject(ctx context.Context, id int64) (*Candidature, error)
}

type CandidatureUsecase interface {
	Submit(ctx context.Context, entrepriseID int64, input SubmitCandidatureInput) (*Candidature, error)
	ListByOffer(ctx context.Context, offerID int64) ([]Candidature, error)
	ListMine(ctx context.Context, entrepriseID int64) ([]Candidature, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*StatusUpdateResult, error)
}
