package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"go-procurement-backend/internal/domain"
	"go-procurement-backend/pkg/database"
)

// setupTestDB starts a throwaway PostgreSQL container and applies the
// embedded migrations. Skipped unless TEST_INTEGRATION is set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		tcpostgres.WithDatabase("procurement_test"),
		tcpostgres.WithUsername("procurement"),
		tcpostgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr), "apply migrations")

	pool, err := database.NewPostgresConnection(connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    username + "@test.fr",
		Password: "irrelevant-digest",
		Role:     role,
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func seedValidatedOffer(t *testing.T, pool *pgxpool.Pool, creatorID int64) *domain.Offer {
	t.Helper()
	offer := &domain.Offer{
		Title:       "Construction d'un pont",
		Description: "Pont sur le fleuve",
		Domaine:     "BTP",
		DateLimite:  time.Now().Add(30 * 24 * time.Hour),
		Status:      domain.OfferStatusValidated,
		CreatedByID: creatorID,
	}
	require.NoError(t, NewOfferRepository(pool).Create(context.Background(), offer))
	return offer
}

func seedCandidature(t *testing.T, repo domain.CandidatureRepository, entrepriseID, offerID int64, status string) *domain.Candidature {
	t.Helper()
	message := "Notre dossier technique"
	c := &domain.Candidature{
		Message:      &message,
		Status:       status,
		EntrepriseID: entrepriseID,
		OfferID:      offerID,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestAcceptCascade(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewCandidatureRepository(pool)

	ministry := seedUser(t, pool, "dgmp", domain.RoleMinistere)
	offer := seedValidatedOffer(t, pool, ministry.ID)

	e1 := seedUser(t, pool, "acme", domain.RoleEntreprise)
	e2 := seedUser(t, pool, "globex", domain.RoleEntreprise)
	e3 := seedUser(t, pool, "initech", domain.RoleEntreprise)

	target := seedCandidature(t, repo, e1.ID, offer.ID, domain.CandidatureStatusPending)
	sibling := seedCandidature(t, repo, e2.ID, offer.ID, domain.CandidatureStatusPending)
	preRejected := seedCandidature(t, repo, e3.ID, offer.ID, domain.CandidatureStatusRejected)

	accepted, autoRejected, err := repo.Accept(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CandidatureStatusAccepted, accepted.Status)
	assert.Equal(t, int64(1), autoRejected, "only the pending sibling is cascaded")

	got, err := repo.GetByID(ctx, sibling.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CandidatureStatusRejected, got.Status)

	untouched, err := repo.GetByID(ctx, preRejected.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CandidatureStatusRejected, untouched.Status)
	assert.Equal(t, preRejected.UpdatedAt.UTC().Truncate(time.Millisecond),
		untouched.UpdatedAt.UTC().Truncate(time.Millisecond),
		"pre-rejected sibling is not restamped by the cascade")

	// the acceptance is now held; accepting the rejected sibling must conflict
	_, _, err = repo.Accept(ctx, sibling.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
}

func TestAcceptConcurrent(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewCandidatureRepository(pool)

	ministry := seedUser(t, pool, "dgmp", domain.RoleMinistere)
	offer := seedValidatedOffer(t, pool, ministry.ID)

	e1 := seedUser(t, pool, "acme", domain.RoleEntreprise)
	e2 := seedUser(t, pool, "globex", domain.RoleEntreprise)
	c1 := seedCandidature(t, repo, e1.ID, offer.ID, domain.CandidatureStatusPending)
	c2 := seedCandidature(t, repo, e2.ID, offer.ID, domain.CandidatureStatusPending)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, id := range []int64{c1.ID, c2.ID} {
		go func(i int, id int64) {
			defer wg.Done()
			_, _, errs[i] = repo.Accept(ctx, id)
		}(i, id)
	}
	wg.Wait()

	// exactly one side wins; the loser observes the conflict, never a raw error
	if errs[0] == nil {
		assert.ErrorIs(t, errs[1], domain.ErrAlreadyAccepted)
	} else {
		assert.ErrorIs(t, errs[0], domain.ErrAlreadyAccepted)
		assert.NoError(t, errs[1])
	}

	var acceptedCount int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidatures WHERE offer_id = $1 AND status = 'accepted'`,
		offer.ID,
	).Scan(&acceptedCount))
	assert.Equal(t, 1, acceptedCount)
}

func TestCreateDuplicateCandidature(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCandidatureRepository(pool)

	ministry := seedUser(t, pool, "dgmp", domain.RoleMinistere)
	offer := seedValidatedOffer(t, pool, ministry.ID)
	entreprise := seedUser(t, pool, "acme", domain.RoleEntreprise)

	seedCandidature(t, repo, entreprise.ID, offer.ID, domain.CandidatureStatusPending)

	message := "Deuxième tentative"
	err := repo.Create(context.Background(), &domain.Candidature{
		Message:      &message,
		EntrepriseID: entreprise.ID,
		OfferID:      offer.ID,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCandidature)
}
