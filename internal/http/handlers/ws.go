package handlers

import (
	"net/http"

	"nhooyr.io/websocket"

	"jobportal/internal/http/middleware"
	"jobportal/internal/http/response"
	"jobportal/internal/realtime"
)

type WSHandler struct {
	hub           *realtime.Hub
	auth          *middleware.AuthMiddleware
	allowedOrigin string
}

func NewWSHandler(hub *realtime.Hub, auth *middleware.AuthMiddleware, allowedOrigin string) *WSHandler {
	return &WSHandler{hub: hub, auth: auth, allowedOrigin: allowedOrigin}
}

// Handle upgrades the connection and streams chat events to the user.
// Browsers cannot set an Authorization header on the websocket handshake,
// so the token arrives as a query parameter.
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Error(w, errUnauthorized())
		return
	}
	identity, err := h.auth.ParseToken(token)
	if err != nil {
		response.Error(w, err)
		return
	}

	opts := &websocket.AcceptOptions{}
	if h.allowedOrigin != "" {
		opts.OriginPatterns = []string{h.allowedOrigin}
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		return
	}

	// Push-only: clients never send data frames, but reads must continue
	// so control frames keep being processed. The returned context is
	// cancelled when the connection closes; the request context is not,
	// since Accept hijacks the connection out of net/http.
	ctx := conn.CloseRead(r.Context())

	client := h.hub.AddClient(identity.UserID, conn)
	defer h.hub.RemoveClient(client)

	<-ctx.Done()
}
