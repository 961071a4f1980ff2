package investors

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/portsure/platform/internal/auth"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE investors (
			investor_id  INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name    TEXT NOT NULL,
			email        TEXT NOT NULL UNIQUE,
			password     TEXT NOT NULL,
			phone_number TEXT UNIQUE
		);
	`)
	require.NoError(t, err)

	return db
}

func newTestService(t *testing.T) (*Service, *Repository) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewService(repo, tokens, zerolog.Nop()), repo
}

func sampleInvestor() Investor {
	return Investor{
		FullName:    "Priya Nair",
		Email:       "priya@example.com",
		Password:    "s3cret-pass",
		PhoneNumber: "+91-9876543210",
	}
}

func TestRegisterHashesAndSanitizes(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Register(sampleInvestor())
	require.NoError(t, err)
	assert.NotZero(t, created.InvestorID)
	assert.Empty(t, created.Password, "response must never carry the hash")

	stored, err := repo.FindByEmail("priya@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password, "password must be hashed at rest")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	dup := sampleInvestor()
	dup.PhoneNumber = "+91-1112223334"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	result, err := svc.Login("priya@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.Investor.Password)

	claims, err := auth.NewManager("test-secret", time.Hour).Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleInvestor, claims.Role)
	assert.Equal(t, "priya@example.com", claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	_, err = svc.Login("priya@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetAllBlanksPasswords(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	list, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Password)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(created.InvestorID, Investor{
		FullName:    "Priya N. Nair",
		Email:       "priya.nair@example.com",
		PhoneNumber: "+91-9998887776",
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya N. Nair", updated.FullName)
	assert.Equal(t, "priya.nair@example.com", updated.Email)

	_, err = svc.UpdateProfile(999, Investor{FullName: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvestorNotFound)
}

func TestChangePasswordVerifiesFullName(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	err = svc.ChangePassword(created.InvestorID, "Someone Else", "new-pass")
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	require.NoError(t, svc.ChangePassword(created.InvestorID, "Priya Nair", "new-pass"))

	_, err = svc.Login("priya@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("priya@example.com", "new-pass")
	assert.NoError(t, err)
}

func TestCheckEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	exists, err := svc.CheckEmail("priya@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckEmail("nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(sampleInvestor())
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword("priya@example.com", "after-reset"))

	_, err = svc.Login("priya@example.com", "after-reset")
	assert.NoError(t, err)

	err = svc.ResetPassword("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvestorNotFound)
}
