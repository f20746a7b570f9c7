package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/service"
)

// MemoryStore is an in-memory service.Store. Transactions are serialized
// and run against a copy of the state that replaces it on commit.
type MemoryStore struct {
	// Now stamps created_at on new rows.
	Now func() time.Time

	mu    sync.Mutex
	state *memState
}

type memState struct {
	users    []models.User
	chats    []models.Chat
	members  map[int][]int
	messages []models.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Now:   time.Now,
		state: &memState{members: map[int][]int{}},
	}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(repos repositories.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{state: s.state.clone(), now: s.Now}
	repos := repositories.Repos{Users: memUsers{tx}, Chats: memChats{tx}, Messages: memMessages{tx}}
	if err := fn(repos); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// AddUser seeds a user directly.
func (s *MemoryStore) AddUser(phone, name string, lastSeen *time.Time) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := models.User{
		ID:        len(s.state.users) + 1,
		Phone:     phone,
		Name:      name,
		Avatar:    models.DefaultUserAvatar,
		LastSeen:  lastSeen,
		CreatedAt: s.Now(),
	}
	s.state.users = append(s.state.users, user)
	return user
}

// ChatCount reports how many chats exist.
func (s *MemoryStore) ChatCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.chats)
}

func (st *memState) clone() *memState {
	c := &memState{
		users:    append([]models.User(nil), st.users...),
		chats:    append([]models.Chat(nil), st.chats...),
		members:  make(map[int][]int, len(st.members)),
		messages: append([]models.Message(nil), st.messages...),
	}
	for id, m := range st.members {
		c.members[id] = append([]int(nil), m...)
	}
	return c
}

type memTx struct {
	state *memState
	now   func() time.Time
}

type memUsers struct{ *memTx }

type memChats struct{ *memTx }

type memMessages struct{ *memTx }

func (q memUsers) Create(ctx context.Context, phone, name, avatar string) (models.User, error) {
	if ok, _ := q.PhoneExists(ctx, phone); ok {
		return models.User{}, repositories.ErrPhoneTaken
	}
	user := models.User{
		ID:        len(q.state.users) + 1,
		Phone:     phone,
		Name:      name,
		Avatar:    avatar,
		CreatedAt: q.now(),
	}
	q.state.users = append(q.state.users, user)
	return user, nil
}

func (q memUsers) PhoneExists(_ context.Context, phone string) (bool, error) {
	for _, u := range q.state.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (q memUsers) Exists(_ context.Context, userID int) (bool, error) {
	return q.user(userID) != nil, nil
}

func (q memUsers) TouchLastSeen(_ context.Context, phone string) (models.User, error) {
	for i := range q.state.users {
		if q.state.users[i].Phone == phone {
			now := q.now()
			q.state.users[i].LastSeen = &now
			return q.state.users[i], nil
		}
	}
	return models.User{}, repositories.ErrUserNotFound
}

func (q memUsers) ListContacts(_ context.Context, excludeUserID int) ([]models.User, error) {
	var users []models.User
	for _, u := range q.state.users {
		if u.ID != excludeUserID {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (q *memTx) user(id int) *models.User {
	for i := range q.state.users {
		if q.state.users[i].ID == id {
			return &q.state.users[i]
		}
	}
	return nil
}

func (q memChats) CreateOrGetDirectChat(_ context.Context, userID int, peerID int) (int, bool, error) {
	if userID == peerID {
		return 0, false, repositories.ErrSelfChat
	}
	low, high := min(userID, peerID), max(userID, peerID)
	for _, c := range q.state.chats {
		if c.IsGroup {
			continue
		}
		if q.isMember(c.ID, low) && q.isMember(c.ID, high) {
			return c.ID, false, nil
		}
	}

	chat := models.Chat{ID: len(q.state.chats) + 1, DMLowID: &low, DMHighID: &high, CreatedAt: q.now()}
	q.state.chats = append(q.state.chats, chat)
	q.state.members[chat.ID] = []int{low, high}
	return chat.ID, true, nil
}

func (q memChats) GetChat(_ context.Context, chatID int) (models.Chat, error) {
	for _, c := range q.state.chats {
		if c.ID == chatID {
			return c, nil
		}
	}
	return models.Chat{}, repositories.ErrChatNotFound
}

func (q memChats) IsMember(_ context.Context, chatID int, userID int) (bool, error) {
	return q.isMember(chatID, userID), nil
}

func (q *memTx) isMember(chatID, userID int) bool {
	for _, id := range q.state.members[chatID] {
		if id == userID {
			return true
		}
	}
	return false
}

func (q memChats) ListForUser(_ context.Context, userID int) ([]models.ChatRow, error) {
	var rows []models.ChatRow
	for _, c := range q.state.chats {
		if !q.isMember(c.ID, userID) {
			continue
		}
		row := models.ChatRow{ChatID: c.ID, Name: c.Name, IsGroup: c.IsGroup, CreatedAt: c.CreatedAt}

		peers := append([]int(nil), q.state.members[c.ID]...)
		sort.Ints(peers)
		for _, id := range peers {
			if id == userID {
				continue
			}
			if u := q.user(id); u != nil {
				row.PeerID, row.PeerName, row.PeerAvatar, row.PeerLastSeen = &u.ID, &u.Name, &u.Avatar, u.LastSeen
				break
			}
		}

		msgs := q.messagesAfter(c.ID, nil)
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			row.LastMessage, row.LastMessageAt = &last.Text, &last.CreatedAt
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].LastMessageAt, rows[j].LastMessageAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return rows[i].ChatID > rows[j].ChatID
	})
	return rows, nil
}

func (q memMessages) Create(_ context.Context, chatID int, senderID int, text string) (models.Message, error) {
	msg := models.Message{
		ID:        len(q.state.messages) + 1,
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Encrypted: true,
		CreatedAt: q.now(),
	}
	q.state.messages = append(q.state.messages, msg)
	return msg, nil
}

func (q memMessages) ListByChat(_ context.Context, chatID int, after *repositories.Cursor, limit int) ([]models.Message, error) {
	msgs := q.messagesAfter(chatID, after)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

// messagesAfter returns the chat's messages ordered by (created_at, id),
// starting after the cursor when one is given.
func (q *memTx) messagesAfter(chatID int, after *repositories.Cursor) []models.Message {
	var msgs []models.Message
	for _, m := range q.state.messages {
		if m.ChatID != chatID {
			continue
		}
		if after != nil && !messageAfter(m, *after) {
			continue
		}
		msgs = append(msgs, m)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs
}

func messageAfter(m models.Message, c repositories.Cursor) bool {
	if m.CreatedAt.Equal(c.CreatedAt) {
		return m.ID > c.ID
	}
	return m.CreatedAt.After(c.CreatedAt)
}

var _ service.Store = (*MemoryStore)(nil)
