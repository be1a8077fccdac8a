package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordvault/recordvault/internal/common"
	"github.com/recordvault/recordvault/internal/server/auth"
	sc "github.com/recordvault/recordvault/internal/server/config"
	"github.com/recordvault/recordvault/internal/server/models"
)

const identitySecret = "test-identity-secret"

func newUserService(t *testing.T, repo *fakeUsersRepo) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := &fakeRepoManager{u: repo}
	cfg := &sc.Config{IdentitySecret: identitySecret}
	return NewUserService(db, m, cfg, testLogger()), mock
}

func identityToken(t *testing.T, externalID string) string {
	t.Helper()
	token, err := auth.GenerateIdentityToken(externalID, "a@b.c", "Alice", []byte(identitySecret), time.Minute)
	require.NoError(t, err)
	return token
}

func TestResolve_CreatesUserOnFirstSight(t *testing.T) {
	repo := newFakeUsersRepo()
	svc, mock := newUserService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	u, err := svc.Resolve(context.Background(), identityToken(t, "ext-1"))
	require.NoError(t, err)

	assert.Equal(t, "ext-1", u.ExternalID)
	assert.Equal(t, "a@b.c", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_ReturnsExistingUser(t *testing.T) {
	repo := newFakeUsersRepo()
	existing := &models.User{ID: "u-existing", ExternalID: "ext-1"}
	repo.byExternal["ext-1"] = existing
	svc, mock := newUserService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	u, err := svc.Resolve(context.Background(), identityToken(t, "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, "u-existing", u.ID)
}

func TestResolve_InvalidToken(t *testing.T) {
	svc, _ := newUserService(t, newFakeUsersRepo())

	_, err := svc.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	forged, err2 := auth.GenerateIdentityToken("ext-1", "", "", []byte("wrong-secret"), time.Minute)
	require.NoError(t, err2)
	_, err = svc.Resolve(context.Background(), forged)
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)
}

func TestResolve_CreateRaceFallsBackToRead(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "users_external_id_key"`)
	svc, mock := newUserService(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	// Simulate the race: the first read misses, create trips the unique
	// constraint because a concurrent request won, the re-read hits.
	winner := &models.User{ID: "u-winner", ExternalID: "ext-1"}
	repo.onCreateFail = func() { repo.byExternal["ext-1"] = winner }

	u, err := svc.Resolve(context.Background(), identityToken(t, "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, "u-winner", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
