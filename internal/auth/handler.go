package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/saulo-duarte/aizzler/internal/config"
)

const writeWait = 10 * time.Second

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Logout revokes the caller's token and tells every open client of the user
// that the session ended.
//
// @Summary      Sign out
// @Description  Revokes the presented token and pushes SIGNED_OUT to the user's event streams.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		config.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	until := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := revoker.Revoke(r.Context(), claims.ID, until); err != nil {
		log.WithError(err).Error("Failed to revoke token")
		config.Error(w, http.StatusInternalServerError, "failed to sign out")
		return
	}

	delivered := h.hub.Publish(claims.UserID, Event{Event: EventSignedOut})
	log.WithField("streams", delivered).Info("User signed out")

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}

// Events streams auth state changes over a websocket until the client goes
// away or the user signs out.
//
// @Summary      Auth event stream
// @Description  Websocket upgrade. Sends SUBSCRIBED, then SIGNED_OUT when the user signs out. Browsers that cannot set headers may pass the token as a query parameter.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        token  query     string  false  "JWT, for clients that cannot send the Authorization header"
// @Success      101    {object}  Event
// @Failure      401    {object}  map[string]string
// @Router       /auth/events [get]
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe(claims.UserID)
	defer cancel()

	// Client frames are ignored; reading only detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, Event{Event: EventSubscribed}); err != nil {
		return
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, ev); err != nil {
				log.WithError(err).Debug("Auth event stream write failed")
				return
			}
			if ev.Event == EventSignedOut {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"),
					time.Now().Add(writeWait))
				return
			}
		case <-gone:
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, ev Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
