package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/service"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, phone, name, avatar string) (models.User, error) {
	args := m.Called(ctx, phone, name, avatar)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) Exists(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) TouchLastSeen(ctx context.Context, phone string) (models.User, error) {
	args := m.Called(ctx, phone)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListContacts(ctx context.Context, excludeUserID int) ([]models.User, error) {
	args := m.Called(ctx, excludeUserID)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateOrGetDirectChat(ctx context.Context, userID int, peerID int) (int, bool, error) {
	args := m.Called(ctx, userID, peerID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) IsMember(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.ChatRow, error) {
	args := m.Called(ctx, userID)
	var rows []models.ChatRow
	if val := args.Get(0); val != nil {
		rows = val.([]models.ChatRow)
	}
	return rows, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, chatID int, senderID int, text string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, text)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListByChat(ctx context.Context, chatID int, after *repositories.Cursor, limit int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, after, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

// StoreMock hands the same repositories to every transaction and counts
// how many were opened.
type StoreMock struct {
	Repos repositories.Repos
	// Err, when set, is returned without running the callback.
	Err error

	mu    sync.Mutex
	calls int
}

// NewStoreMock wires fresh repository mocks into a StoreMock.
func NewStoreMock() (*StoreMock, *UserRepositoryMock, *ChatRepositoryMock, *MessageRepositoryMock) {
	users := new(UserRepositoryMock)
	chats := new(ChatRepositoryMock)
	messages := new(MessageRepositoryMock)
	return &StoreMock{Repos: repositories.Repos{Users: users, Chats: chats, Messages: messages}}, users, chats, messages
}

func (s *StoreMock) WithinTx(ctx context.Context, fn func(repos repositories.Repos) error) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	return fn(s.Repos)
}

func (s *StoreMock) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type EventEmitterMock struct {
	mock.Mock
}

func (m *EventEmitterMock) Emit(ctx context.Context, eventType string, userID int, payload any) {
	m.Called(ctx, eventType, userID, payload)
}

type MessengerMock struct {
	mock.Mock
}

func (m *MessengerMock) ListChats(ctx context.Context, userID int) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

func (m *MessengerMock) ListContacts(ctx context.Context, userID int) ([]models.Contact, error) {
	args := m.Called(ctx, userID)
	var list []models.Contact
	if val := args.Get(0); val != nil {
		list = val.([]models.Contact)
	}
	return list, args.Error(1)
}

func (m *MessengerMock) CreateChat(ctx context.Context, userID, targetID int) (service.CreateChatResult, error) {
	args := m.Called(ctx, userID, targetID)
	var res service.CreateChatResult
	if val := args.Get(0); val != nil {
		res = val.(service.CreateChatResult)
	}
	return res, args.Error(1)
}

func (m *MessengerMock) SendMessage(ctx context.Context, userID, chatID int, text string) (models.MessageView, error) {
	args := m.Called(ctx, userID, chatID, text)
	var view models.MessageView
	if val := args.Get(0); val != nil {
		view = val.(models.MessageView)
	}
	return view, args.Error(1)
}

func (m *MessengerMock) ListMessages(ctx context.Context, userID int, q service.MessageQuery) (service.MessagePage, error) {
	args := m.Called(ctx, userID, q)
	var page service.MessagePage
	if val := args.Get(0); val != nil {
		page = val.(service.MessagePage)
	}
	return page, args.Error(1)
}

type AccountsMock struct {
	mock.Mock
}

func (m *AccountsMock) Register(ctx context.Context, in service.RegisterInput) (models.User, error) {
	args := m.Called(ctx, in)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *AccountsMock) Login(ctx context.Context, phone string) (models.User, error) {
	args := m.Called(ctx, phone)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ service.Store = (*StoreMock)(nil)
var _ service.EventEmitter = (*EventEmitterMock)(nil)
