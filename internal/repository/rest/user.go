package rest

import (
	"context"

	"encore-rentals/internal/domain"
	"encore-rentals/internal/repository"
)

type userRepository struct {
	t Table
}

func NewUserRepository(t Table) repository.UserRepository {
	return &userRepository{t: t}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.t.Insert(ctx, tableUsers, user, user)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return fetchOne[domain.User](ctx, r.t, tableUsers, id)
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	patch := map[string]any{"name": user.Name, "avatar_url": user.AvatarURL}
	return notFound(r.t.Update(ctx, tableUsers, user.ID, patch, user))
}
