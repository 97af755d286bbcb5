package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/plantnet-backend/internal/users"
	pkgAuth "github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/db/dbtest"
	"github.com/angelmondragon/plantnet-backend/pkg/db/models"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
)

var jwtCfg = config.JWTConfig{Secret: "test-secret", Issuer: "plantnet", Expiration: 7 * 24 * time.Hour}

func newTestService(t *testing.T) (Service, *users.Repository) {
	t.Helper()
	repo := users.NewRepository(dbtest.Open(t))
	svc, err := NewService(ServiceParams{UserRepo: repo, JWTConfig: jwtCfg})
	require.NoError(t, err)
	return svc, repo
}

func TestIssueTokenRoundTrips(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.IssueToken(context.Background(), " ada@example.com ")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(jwtCfg.Expiration), token.ExpiresAt, time.Minute)

	claims, err := pkgAuth.ParseIdentityToken(jwtCfg, token.Value)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)

	_, err = svc.IssueToken(context.Background(), "")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestResolveIdentityUsesStoredRole(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	require.NoError(t, repo.Create(ctx, &models.User{Email: "boss@example.com", Name: "Boss", Role: enums.UserRoleAdmin}))

	identity, err := svc.ResolveIdentity(ctx, "boss@example.com")
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())

	stranger, err := svc.ResolveIdentity(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, "nobody@example.com", stranger.Email)
	assert.Empty(t, stranger.Role)
	assert.False(t, stranger.IsAdmin())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{JWTConfig: jwtCfg})
	require.Error(t, err)

	_, err = NewService(ServiceParams{UserRepo: users.NewRepository(nil)})
	require.Error(t, err)
}
