package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"messenger-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPhoneTaken   = errors.New("phone already registered")
)

const uniqueViolation = "23505"

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, phone, name, avatar string) (models.User, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	Exists(ctx context.Context, userID int) (bool, error)
	TouchLastSeen(ctx context.Context, phone string) (models.User, error)
	ListContacts(ctx context.Context, excludeUserID int) ([]models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	q sqlx.ExtContext
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(q sqlx.ExtContext) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, phone, name, avatar, status, last_seen, created_at`

// Create inserts a user. A duplicate phone yields ErrPhoneTaken.
func (r *UserRepo) Create(ctx context.Context, phone, name, avatar string) (models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q, &user,
		`INSERT INTO users (phone, name, avatar) VALUES ($1, $2, $3) RETURNING `+userColumns,
		phone, name, avatar)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, ErrPhoneTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// PhoneExists reports whether the phone is already registered.
func (r *UserRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.q, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE phone=$1)`, phone)
	return exists, err
}

// Exists reports whether a user with the id exists.
func (r *UserRepo) Exists(ctx context.Context, userID int) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.q, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID)
	return exists, err
}

// TouchLastSeen stamps last_seen for the user owning phone and returns it.
func (r *UserRepo) TouchLastSeen(ctx context.Context, phone string) (models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q, &user,
		`UPDATE users SET last_seen = NOW() WHERE phone=$1 RETURNING `+userColumns, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListContacts returns every user except excludeUserID ordered by name
// using byte-wise comparison.
func (r *UserRepo) ListContacts(ctx context.Context, excludeUserID int) ([]models.User, error) {
	var users []models.User
	err := sqlx.SelectContext(ctx, r.q, &users,
		`SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY name COLLATE "C" ASC, id ASC`,
		excludeUserID)
	return users, err
}
