package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"messenger-service/internal/apperr"
	"messenger-service/internal/models"
	"messenger-service/internal/observability"
	"messenger-service/internal/presence"
	"messenger-service/internal/repositories"
)

const (
	// MaxMessageRunes bounds the length of a message text after trimming.
	MaxMessageRunes = 4096
	// MaxPageSize caps the limit of a paginated message fetch.
	MaxPageSize = 200

	GroupAvatar     = "👥"
	NoMessagesYet   = "no messages yet"
	timestampLayout = time.RFC3339
)

// Messenger serves the chat directory, contact directory, chat creation and
// message operations for an authenticated caller.
type Messenger struct {
	store Store
	options
}

func NewMessenger(store Store, opts ...Option) *Messenger {
	return &Messenger{store: store, options: newOptions(opts)}
}

// CreateChatResult identifies the one-to-one chat of a pair.
type CreateChatResult struct {
	ChatID  int  `json:"chat_id"`
	Created bool `json:"created"`
}

// MessageQuery selects the messages of a chat. A zero Limit returns the
// whole history after Cursor.
type MessageQuery struct {
	ChatID int
	Limit  int
	Cursor string
}

// MessagePage is an ascending run of messages. NextCursor is set when more
// messages follow.
type MessagePage struct {
	Messages   []models.MessageView `json:"messages"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

func (m *Messenger) ListChats(ctx context.Context, userID int) (_ []models.ChatSummary, err error) {
	ctx, span := tracer.Start(ctx, "messenger.ListChats", trace.WithAttributes(attribute.Int("user.id", userID)))
	defer func() { err = m.finish(ctx, span, "list_chats", err) }()

	var rows []models.ChatRow
	err = m.store.WithinTx(ctx, func(repos repositories.Repos) error {
		var err error
		rows, err = repos.Chats.ListForUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := m.now()
	chats := make([]models.ChatSummary, 0, len(rows))
	for _, row := range rows {
		chats = append(chats, m.summarize(row, now))
	}
	return chats, nil
}

func (m *Messenger) summarize(row models.ChatRow, now time.Time) models.ChatSummary {
	summary := models.ChatSummary{
		ID:          row.ChatID,
		Avatar:      GroupAvatar,
		LastMessage: NoMessagesYet,
		Timestamp:   presence.FormatTimestamp(row.LastMessageAt, now, m.loc),
	}
	if row.Name != nil {
		summary.Name = *row.Name
	}
	if !row.IsGroup && row.PeerID != nil {
		if row.PeerName != nil && *row.PeerName != "" {
			summary.Name = *row.PeerName
		}
		if row.PeerAvatar != nil && *row.PeerAvatar != "" {
			summary.Avatar = *row.PeerAvatar
		}
		summary.Online = presence.Evaluate(row.PeerLastSeen, now).Online
	}
	if row.LastMessage != nil {
		summary.LastMessage = *row.LastMessage
	}
	return summary
}

// ListContacts returns every other user by name in byte order, then id.
func (m *Messenger) ListContacts(ctx context.Context, userID int) (_ []models.Contact, err error) {
	ctx, span := tracer.Start(ctx, "messenger.ListContacts", trace.WithAttributes(attribute.Int("user.id", userID)))
	defer func() { err = m.finish(ctx, span, "list_contacts", err) }()

	var users []models.User
	err = m.store.WithinTx(ctx, func(repos repositories.Repos) error {
		var err error
		users, err = repos.Users.ListContacts(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := m.now()
	contacts := make([]models.Contact, 0, len(users))
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		p := presence.Evaluate(u.LastSeen, now)
		status := u.Status
		if u.LastSeen != nil {
			status = p.Status
		}
		contacts = append(contacts, models.Contact{
			ID:     u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Status: status,
			Online: p.Online,
		})
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		if contacts[i].Name != contacts[j].Name {
			return contacts[i].Name < contacts[j].Name
		}
		return contacts[i].ID < contacts[j].ID
	})
	return contacts, nil
}

// CreateChat finds or creates the one-to-one chat between the caller and
// targetID.
func (m *Messenger) CreateChat(ctx context.Context, userID, targetID int) (_ CreateChatResult, err error) {
	ctx, span := tracer.Start(ctx, "messenger.CreateChat", trace.WithAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("target.id", targetID),
	))
	defer func() { err = m.finish(ctx, span, "create_chat", err) }()

	if targetID <= 0 {
		return CreateChatResult{}, apperr.Validation("user_id required")
	}
	if targetID == userID {
		return CreateChatResult{}, apperr.Validation("cannot create chat with yourself")
	}

	var result CreateChatResult
	err = m.store.WithinTx(ctx, func(repos repositories.Repos) error {
		exists, err := repos.Users.Exists(ctx, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("user not found")
		}
		result.ChatID, result.Created, err = repos.Chats.CreateOrGetDirectChat(ctx, userID, targetID)
		return err
	})
	if err != nil {
		return CreateChatResult{}, err
	}

	span.SetAttributes(attribute.Int("chat.id", result.ChatID), attribute.Bool("chat.created", result.Created))
	if result.Created {
		observability.IncChatsCreated()
		m.emit(ctx, EventChatCreated, userID, map[string]any{
			"chat_id":    result.ChatID,
			"member_ids": []int{userID, targetID},
		})
	}
	return result, nil
}

// SendMessage appends text to a chat the caller belongs to.
func (m *Messenger) SendMessage(ctx context.Context, userID, chatID int, text string) (_ models.MessageView, err error) {
	ctx, span := tracer.Start(ctx, "messenger.SendMessage", trace.WithAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("chat.id", chatID),
	))
	defer func() { err = m.finish(ctx, span, "send_message", err) }()

	text = strings.TrimSpace(text)
	if chatID <= 0 || text == "" {
		return models.MessageView{}, apperr.Validation("chat_id and text required")
	}
	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return models.MessageView{}, apperr.Validation("text too long")
	}

	var msg models.Message
	err = m.store.WithinTx(ctx, func(repos repositories.Repos) error {
		if err := requireMember(ctx, repos, chatID, userID); err != nil {
			return err
		}
		var err error
		msg, err = repos.Messages.Create(ctx, chatID, userID, text)
		return err
	})
	if err != nil {
		return models.MessageView{}, err
	}

	observability.IncMessagesSent()
	m.emit(ctx, EventMessageSent, userID, map[string]any{
		"chat_id":    msg.ChatID,
		"message_id": msg.ID,
	})
	return m.view(msg, userID, m.now()), nil
}

// ListMessages returns chat messages in ascending order for a member.
func (m *Messenger) ListMessages(ctx context.Context, userID int, q MessageQuery) (_ MessagePage, err error) {
	ctx, span := tracer.Start(ctx, "messenger.ListMessages", trace.WithAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("chat.id", q.ChatID),
	))
	defer func() { err = m.finish(ctx, span, "list_messages", err) }()

	if q.ChatID <= 0 {
		return MessagePage{}, apperr.Validation("chat_id required")
	}
	if q.Limit < 0 {
		return MessagePage{}, apperr.Validation("limit must be positive")
	}
	limit := min(q.Limit, MaxPageSize)
	after, err := repositories.DecodeCursor(q.Cursor)
	if err != nil {
		return MessagePage{}, apperr.Validation("invalid cursor")
	}

	fetch := 0
	if limit > 0 {
		fetch = limit + 1
	}

	var msgs []models.Message
	err = m.store.WithinTx(ctx, func(repos repositories.Repos) error {
		if err := requireMember(ctx, repos, q.ChatID, userID); err != nil {
			return err
		}
		var err error
		msgs, err = repos.Messages.ListByChat(ctx, q.ChatID, after, fetch)
		return err
	})
	if err != nil {
		return MessagePage{}, err
	}

	var page MessagePage
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
		last := msgs[len(msgs)-1]
		page.NextCursor, err = repositories.EncodeCursor(repositories.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return MessagePage{}, err
		}
	}

	now := m.now()
	page.Messages = make([]models.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		page.Messages = append(page.Messages, m.view(msg, userID, now))
	}
	return page, nil
}

func (m *Messenger) view(msg models.Message, userID int, now time.Time) models.MessageView {
	sender := models.SenderOther
	if msg.SenderID == userID {
		sender = models.SenderSelf
	}
	return models.MessageView{
		ID:        strconv.Itoa(msg.ID),
		Text:      msg.Text,
		Sender:    sender,
		Timestamp: msg.CreatedAt.UTC().Format(timestampLayout),
		Time:      presence.FormatTimestamp(&msg.CreatedAt, now, m.loc),
		Encrypted: msg.Encrypted,
	}
}

func requireMember(ctx context.Context, repos repositories.Repos, chatID, userID int) error {
	if _, err := repos.Chats.GetChat(ctx, chatID); err != nil {
		return err
	}
	member, err := repos.Chats.IsMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperr.Forbidden("not a chat member")
	}
	return nil
}
