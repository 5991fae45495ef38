package chatbot

import (
	"net/http"

	"github.com/shophub-io/shophub-backend/api/middleware"
	"github.com/shophub-io/shophub-backend/api/responses"
	"github.com/shophub-io/shophub-backend/api/validators"
	chatbotsvc "github.com/shophub-io/shophub-backend/internal/chatbot"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

// MessageRequest is one inbound chat message.
type MessageRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// MessageResponse is the agent's reply.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// Message routes a chat message through the conversational agent. The
// endpoint is public; the agent itself asks anonymous visitors to log in
// before placing orders.
func Message(svc chatbotsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload MessageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reply, err := svc.HandleMessage(r.Context(), chatbotsvc.Request{
			SessionID: middleware.SessionIDFromContext(r.Context()),
			UserID:    middleware.UserIDFromContext(r.Context()),
			Message:   payload.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, MessageResponse{Reply: reply})
	}
}
