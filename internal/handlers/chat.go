package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/apperr"
	"messenger-service/internal/middleware"
	"messenger-service/internal/models"
	"messenger-service/internal/service"
)

// ChatService is the messaging surface the handler dispatches to.
type ChatService interface {
	ListChats(ctx context.Context, userID int) ([]models.ChatSummary, error)
	ListContacts(ctx context.Context, userID int) ([]models.Contact, error)
	CreateChat(ctx context.Context, userID, targetID int) (service.CreateChatResult, error)
	SendMessage(ctx context.Context, userID, chatID int, text string) (models.MessageView, error)
	ListMessages(ctx context.Context, userID int, q service.MessageQuery) (service.MessagePage, error)
}

// ChatHandler serves GET and POST /chats, dispatching on the action.
type ChatHandler struct {
	chats ChatService
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(chats ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

const (
	actionChats       = "chats"
	actionMessages    = "messages"
	actionContacts    = "contacts"
	actionCreateChat  = "create_chat"
	actionSendMessage = "send_message"
	actionUnknown     = "unknown"
)

// Get serves the read actions selected by ?action=, defaulting to chats.
func (h *ChatHandler) Get(c *gin.Context) {
	action := c.DefaultQuery("action", actionChats)
	switch action {
	case actionChats:
		setAction(c, action)
		h.listChats(c)
	case actionMessages:
		setAction(c, action)
		h.listMessages(c)
	case actionContacts:
		setAction(c, action)
		h.listContacts(c)
	default:
		setAction(c, actionUnknown)
		respondError(c, apperr.Validation("unknown action"))
	}
}

type chatRequest struct {
	Action string `json:"action"`
	UserID int    `json:"user_id"`
	ChatID int    `json:"chat_id"`
	Text   string `json:"text"`
}

// Post serves the write actions named by the body's action field.
func (h *ChatHandler) Post(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		setAction(c, actionUnknown)
		respondError(c, apperr.Validation("invalid request body"))
		return
	}

	switch req.Action {
	case actionCreateChat:
		setAction(c, req.Action)
		h.createChat(c, req)
	case actionSendMessage:
		setAction(c, req.Action)
		h.sendMessage(c, req)
	default:
		setAction(c, actionUnknown)
		respondError(c, apperr.Validation("unknown action"))
	}
}

func (h *ChatHandler) listChats(c *gin.Context) {
	chats, err := h.chats.ListChats(c.Request.Context(), c.GetInt(middleware.UserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *ChatHandler) listContacts(c *gin.Context) {
	contacts, err := h.chats.ListContacts(c.Request.Context(), c.GetInt(middleware.UserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (h *ChatHandler) listMessages(c *gin.Context) {
	chatID, err := positiveQueryInt(c, "chat_id", true)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := positiveQueryInt(c, "limit", false)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.chats.ListMessages(c.Request.Context(), c.GetInt(middleware.UserIDKey), service.MessageQuery{
		ChatID: chatID,
		Limit:  limit,
		Cursor: c.Query("cursor"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ChatHandler) createChat(c *gin.Context, req chatRequest) {
	res, err := h.chats.CreateChat(c.Request.Context(), c.GetInt(middleware.UserIDKey), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ChatHandler) sendMessage(c *gin.Context, req chatRequest) {
	msg, err := h.chats.SendMessage(c.Request.Context(), c.GetInt(middleware.UserIDKey), req.ChatID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// positiveQueryInt parses a query parameter as a positive integer. Absent
// optional parameters yield zero.
func positiveQueryInt(c *gin.Context, name string, required bool) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			return 0, apperr.Validation(name + " required")
		}
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return n, nil
}

var _ ChatService = (*service.Messenger)(nil)
