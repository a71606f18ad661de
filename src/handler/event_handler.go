package handler

import (
	"github.com/ctfpad/backend/src/service"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	ctftimeService *service.CtftimeService
}

func NewEventHandler(ctftimeService *service.CtftimeService) *EventHandler {
	return &EventHandler{ctftimeService: ctftimeService}
}

// ListUpcomingEvents handles GET /events/upcoming. The list is empty when
// the calendar could not be reached, never an error.
func (h *EventHandler) ListUpcomingEvents(c *gin.Context) {
	events := h.ctftimeService.FetchUpcoming(c.Request.Context())
	respondWithSuccess(c, events)
}
