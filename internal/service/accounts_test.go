package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messenger-service/internal/apperr"
	"messenger-service/internal/mocks"
	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/service"
)

func TestRegisterDefaultsAvatar(t *testing.T) {
	store, users, _, _ := mocks.NewStoreMock()
	events := new(mocks.EventEmitterMock)
	accounts := service.NewAccounts(store, service.WithEvents(events))

	users.On("PhoneExists", mock.Anything, "+79990001122").Return(false, nil).Once()
	users.On("Create", mock.Anything, "+79990001122", "Amy", models.DefaultUserAvatar).
		Return(models.User{ID: 3, Phone: "+79990001122", Name: "Amy", Avatar: models.DefaultUserAvatar}, nil).Once()
	events.On("Emit", mock.Anything, service.EventUserRegistered, 3, mock.Anything).Once()

	user, err := accounts.Register(context.Background(), service.RegisterInput{Phone: " +79990001122 ", Name: "Amy "})

	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)
	users.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestRegisterValidation(t *testing.T) {
	store, _, _, _ := mocks.NewStoreMock()
	accounts := service.NewAccounts(store)

	_, err := accounts.Register(context.Background(), service.RegisterInput{Phone: "+7", Name: "  "})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Zero(t, store.Calls())
}

func TestRegisterDuplicatePhone(t *testing.T) {
	store, users, _, _ := mocks.NewStoreMock()
	accounts := service.NewAccounts(store)

	users.On("PhoneExists", mock.Anything, "+7").Return(true, nil).Once()
	_, err := accounts.Register(context.Background(), service.RegisterInput{Phone: "+7", Name: "Amy"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	users.On("PhoneExists", mock.Anything, "+8").Return(false, nil).Once()
	users.On("Create", mock.Anything, "+8", "Bob", "🐻").Return(nil, repositories.ErrPhoneTaken).Once()
	_, err = accounts.Register(context.Background(), service.RegisterInput{Phone: "+8", Name: "Bob", Avatar: "🐻"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLoginStampsLastSeen(t *testing.T) {
	store := mocks.NewMemoryStore()
	store.Now = fixedClock
	store.AddUser("+70000000001", "Amy", nil)
	accounts := service.NewAccounts(store)
	m := newMessenger(store)

	user, err := accounts.Login(context.Background(), "+70000000001")
	require.NoError(t, err)
	require.NotNil(t, user.LastSeen)
	assert.True(t, now.Equal(*user.LastSeen))

	contacts, err := m.ListContacts(context.Background(), 99)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.True(t, contacts[0].Online)
	assert.Equal(t, "online", contacts[0].Status)
}

func TestLoginUnknownPhone(t *testing.T) {
	store := mocks.NewMemoryStore()
	accounts := service.NewAccounts(store)

	_, err := accounts.Login(context.Background(), "+70000000009")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = accounts.Login(context.Background(), " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
