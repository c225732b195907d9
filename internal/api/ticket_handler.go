package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ticketdesk-io/ticketdesk/internal/middleware"
	"github.com/ticketdesk-io/ticketdesk/internal/models"
	"github.com/ticketdesk-io/ticketdesk/internal/service"
)

type TicketHandler struct {
	ticketService *service.TicketService
	development   bool
}

func NewTicketHandler(ticketService *service.TicketService, development bool) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		development:   development,
	}
}

func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets, err := h.ticketService.List(middleware.Identity(c))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Get(middleware.Identity(c), id)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req models.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.ticketService.Create(middleware.Identity(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrInvalidPriority):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      id,
		"message": "Ticket created successfully",
	})
}

func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	if err := h.ticketService.UpdateStatus(middleware.Identity(c), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		case errors.Is(err, service.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

func (h *TicketHandler) AssignTicket(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.ticketService.Assign(middleware.Identity(c), id, req.AssignedTo); err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket assigned successfully"})
}

func (h *TicketHandler) UpdateEstimate(c *gin.Context) {
	id, ok := h.ticketID(c)
	if !ok {
		return
	}

	var req models.UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estimated time must be a non-negative number or null"})
		return
	}

	if err := h.ticketService.UpdateEstimate(middleware.Identity(c), id, req.EstimatedTime); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEstimate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Estimated time must be a non-negative number or null"})
		case errors.Is(err, service.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estimated time updated successfully"})
}

func (h *TicketHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.ticketService.ServiceCatalog())
}

func (h *TicketHandler) ListUsers(c *gin.Context) {
	users, err := h.ticketService.ListAssignableUsers()
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *TicketHandler) StatsOverview(c *gin.Context) {
	stats, err := h.ticketService.Stats(middleware.Identity(c))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ticketID parses the :id parameter. A non-numeric value cannot match any
// row, so it is reported the same way as a missing ticket.
func (h *TicketHandler) ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return 0, false
	}
	return id, true
}

func (h *TicketHandler) internalError(c *gin.Context, err error) {
	body := gin.H{"error": "Internal server error"}
	if h.development {
		body["message"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
