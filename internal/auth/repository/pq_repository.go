package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/watchroom/watchroom/internal/auth"
	"github.com/watchroom/watchroom/internal/models"
)

type authRepo struct {
	db *sqlx.DB
}

func NewAuthRepo(db *sqlx.DB) auth.Repository {
	return &authRepo{
		db: db,
	}
}

func (a *authRepo) Register(ctx context.Context, user *models.User) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		createUserQuery,
		&user.Username,
		&user.Email,
		&user.Password,
	).StructScan(u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (a *authRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		findByEmailQuery,
		email,
	).StructScan(u); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

func (a *authRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		getUserQuery,
		userID,
	).StructScan(u); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
