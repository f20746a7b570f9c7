package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"messenger-service/internal/apperr"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
)

// Accounts registers users and records logins.
type Accounts struct {
	store Store
	options
}

func NewAccounts(store Store, opts ...Option) *Accounts {
	return &Accounts{store: store, options: newOptions(opts)}
}

type RegisterInput struct {
	Phone  string
	Name   string
	Avatar string
}

// Register creates a user for an unused phone number.
func (a *Accounts) Register(ctx context.Context, in RegisterInput) (_ models.User, err error) {
	ctx, span := tracer.Start(ctx, "accounts.Register")
	defer func() { err = a.finish(ctx, span, "register", err) }()

	phone := strings.TrimSpace(in.Phone)
	name := strings.TrimSpace(in.Name)
	if phone == "" || name == "" {
		return models.User{}, apperr.Validation("phone and name required")
	}
	avatar := strings.TrimSpace(in.Avatar)
	if avatar == "" {
		avatar = models.DefaultUserAvatar
	}

	var user models.User
	err = a.store.WithinTx(ctx, func(repos repositories.Repos) error {
		taken, err := repos.Users.PhoneExists(ctx, phone)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("phone already registered")
		}
		user, err = repos.Users.Create(ctx, phone, name, avatar)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	a.emit(ctx, EventUserRegistered, user.ID, map[string]any{"user_id": user.ID})
	return user, nil
}

// Login stamps last_seen for the phone's owner. It is the only writer of
// last_seen.
func (a *Accounts) Login(ctx context.Context, phone string) (_ models.User, err error) {
	ctx, span := tracer.Start(ctx, "accounts.Login")
	defer func() { err = a.finish(ctx, span, "login", err) }()

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.User{}, apperr.Validation("phone required")
	}

	var user models.User
	err = a.store.WithinTx(ctx, func(repos repositories.Repos) error {
		var err error
		user, err = repos.Users.TouchLastSeen(ctx, phone)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	return user, nil
}

