package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/nutrition-program-api/internal/application/auth"
	"github.com/jhoicas/nutrition-program-api/internal/application/auth/mocks"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

const userID = "00000000-0000-0000-0000-000000000001"

func TestResolve_HitDeCacheNoConsultaBD(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserLookup(ctrl)
	cache := mocks.NewMockIdentityCache(ctrl)
	ctx := context.Background()

	cache.EXPECT().Get(ctx, userID).Return(&entity.Identity{UserID: userID, Role: entity.RoleVO, Active: true}, nil)

	r := auth.NewIdentityResolver(users, cache, zerolog.Nop())
	identity, err := r.Resolve(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVO, identity.Role)
}

func TestResolve_MissConsultaBDYCachea(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserLookup(ctrl)
	cache := mocks.NewMockIdentityCache(ctrl)
	ctx := context.Background()

	want := entity.Identity{UserID: userID, Role: entity.RoleDEO, Active: true}
	gomock.InOrder(
		cache.EXPECT().Get(ctx, userID).Return(nil, nil),
		users.EXPECT().GetByID(ctx, userID).Return(&entity.User{ID: userID, Role: entity.RoleDEO, Active: true}, nil),
		cache.EXPECT().Set(ctx, want).Return(nil),
	)

	r := auth.NewIdentityResolver(users, cache, zerolog.Nop())
	identity, err := r.Resolve(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, want, identity)
}

func TestResolve_CacheCaidaDegradaABD(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserLookup(ctrl)
	cache := mocks.NewMockIdentityCache(ctrl)
	ctx := context.Background()

	cache.EXPECT().Get(ctx, userID).Return(nil, errors.New("redis down"))
	users.EXPECT().GetByID(ctx, userID).Return(&entity.User{ID: userID, Role: entity.RoleAdmin, Active: true}, nil)
	cache.EXPECT().Set(ctx, gomock.Any()).Return(errors.New("redis down"))

	r := auth.NewIdentityResolver(users, cache, zerolog.Nop())
	identity, err := r.Resolve(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, identity.Role)
}

func TestResolve_UsuarioInexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserLookup(ctrl)
	ctx := context.Background()

	users.EXPECT().GetByID(ctx, userID).Return(nil, nil)

	r := auth.NewIdentityResolver(users, nil, zerolog.Nop())
	_, err := r.Resolve(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_UsuarioInactivoCacheadoSeRechaza(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserLookup(ctrl)
	cache := mocks.NewMockIdentityCache(ctrl)
	ctx := context.Background()

	cache.EXPECT().Get(ctx, userID).Return(&entity.Identity{UserID: userID, Role: entity.RoleVO, Active: false}, nil)

	r := auth.NewIdentityResolver(users, cache, zerolog.Nop())
	identity, err := r.Resolve(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
	assert.Equal(t, userID, identity.UserID)
}
