package main

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/product-service/internal/domain"
	apperrors "github.com/spec-kit/product-service/pkg/util"
)

type fakePrincipalRepo struct {
	byUsername map[string]*domain.Principal
	updated    []string
}

func (r *fakePrincipalRepo) Create(_ context.Context, p *domain.Principal) error {
	r.byUsername[p.Username] = p
	return nil
}

func (r *fakePrincipalRepo) Update(_ context.Context, p *domain.Principal) error {
	if _, ok := r.byUsername[p.Username]; !ok {
		return pgx.ErrNoRows
	}
	r.byUsername[p.Username] = p
	r.updated = append(r.updated, p.Username)
	return nil
}

func (r *fakePrincipalRepo) GetByUsername(_ context.Context, username string) (*domain.Principal, error) {
	if p, ok := r.byUsername[username]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func TestSetPrincipalActiveDeactivates(t *testing.T) {
	repo := &fakePrincipalRepo{byUsername: map[string]*domain.Principal{
		"bob": {ID: "3", Username: "bob", Role: domain.RoleNonAdmin, Active: true},
	}}

	principal, err := setPrincipalActive(context.Background(), repo, "bob", false)
	require.NoError(t, err)
	assert.False(t, principal.Active)
	assert.False(t, repo.byUsername["bob"].Active)
	assert.Equal(t, []string{"bob"}, repo.updated)
}

func TestSetPrincipalActiveReactivates(t *testing.T) {
	repo := &fakePrincipalRepo{byUsername: map[string]*domain.Principal{
		"bob": {ID: "3", Username: "bob", Role: domain.RoleNonAdmin, Active: false},
	}}

	principal, err := setPrincipalActive(context.Background(), repo, "bob", true)
	require.NoError(t, err)
	assert.True(t, principal.Active)
	assert.True(t, repo.byUsername["bob"].Active)
}

func TestSetPrincipalActiveUnknown(t *testing.T) {
	repo := &fakePrincipalRepo{byUsername: map[string]*domain.Principal{}}

	_, err := setPrincipalActive(context.Background(), repo, "mallory", false)
	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_PRINCIPAL", apperrors.ToDomainError(err).Code)
	assert.Empty(t, repo.updated)
}
