package handlers

import (
	"net/http"
	"strconv"
	"time"

	"jobportal/internal/app"
	"jobportal/internal/common"
	"jobportal/internal/http/middleware"
	"jobportal/internal/http/response"
)

type ChatHandler struct {
	chats   *app.ChatService
	limiter middleware.Limiter
}

func NewChatHandler(chats *app.ChatService, limiter middleware.Limiter) *ChatHandler {
	return &ChatHandler{chats: chats, limiter: limiter}
}

type messageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	channelID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "msg:" + channelID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 1, 2*time.Second) {
			response.Error(w, common.NewError(common.CodeRateLimited, "messages are sent too frequently", nil))
			return
		}
	}
	created, err := h.chats.Send(r.Context(), channelID, userID, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	channelID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	items, err := h.chats.History(r.Context(), channelID, userID, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ChatHandler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	channelID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	count, err := h.chats.UnreadCount(r.Context(), channelID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	channelID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.chats.MarkRead(r.Context(), channelID, userID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *ChatHandler) Partner(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	channelID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	name, err := h.chats.PartnerName(r.Context(), channelID, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"name": name})
}
