package service

import (
	"database/sql"
	"errors"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/models"
	"github.com/ticketdesk-io/ticketdesk/internal/repository"
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrMissingFields   = errors.New("title, description, service_demandeur and nom_demandeur are required")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
	ErrInvalidEstimate = errors.New("estimated time must be a non-negative number or null")
)

// Notifier receives best-effort ticket notifications. Implementations must
// never block the caller; delivery failures stay inside the notifier.
type Notifier interface {
	TicketCreated(ticket *models.Ticket)
	StatusChanged(ticket *models.Ticket, newStatus string)
}

// Identity is the token-derived caller passed to every operation.
type Identity struct {
	UserID   int64
	Email    string
	Username string
	Role     string
}

type TicketService struct {
	tickets      *repository.TicketRepository
	users        *repository.UserRepository
	capabilities *auth.Capabilities
	notifier     Notifier
}

func NewTicketService(tickets *repository.TicketRepository, users *repository.UserRepository, capabilities *auth.Capabilities, notifier Notifier) *TicketService {
	return &TicketService{
		tickets:      tickets,
		users:        users,
		capabilities: capabilities,
		notifier:     notifier,
	}
}

// List returns all tickets for staff, and only the caller's own tickets
// for every other role.
func (s *TicketService) List(identity Identity) ([]models.Ticket, error) {
	if s.capabilities.CanViewAllTickets(identity.Role) {
		return s.tickets.ListAll()
	}
	return s.tickets.ListByOwner(identity.UserID)
}

// Get fetches one ticket under the same visibility rule as List. A ticket
// outside the caller's scope yields the same not-found error as a missing
// one.
func (s *TicketService) Get(identity Identity, id int64) (*models.Ticket, error) {
	var (
		ticket *models.Ticket
		err    error
	)
	if s.capabilities.CanViewAllTickets(identity.Role) {
		ticket, err = s.tickets.GetByID(id)
	} else {
		ticket, err = s.tickets.GetByIDForOwner(id, identity.UserID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// Create validates and persists a new ticket owned by the caller, then
// fires a best-effort notification.
func (s *TicketService) Create(identity Identity, req *models.CreateTicketRequest) (int64, error) {
	if req.Title == "" || req.Description == "" || req.ServiceDemandeur == "" || req.NomDemandeur == "" {
		return 0, ErrMissingFields
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return 0, ErrInvalidPriority
	}

	ticketService := req.Service
	if ticketService == "" {
		ticketService = models.DefaultService
	}

	ticket := &models.Ticket{
		Title:            req.Title,
		Description:      req.Description,
		Status:           models.StatusNew,
		Priority:         priority,
		Service:          ticketService,
		ServiceDemandeur: req.ServiceDemandeur,
		NomDemandeur:     req.NomDemandeur,
		EstimatedTime:    req.EstimatedTime,
		UserID:           identity.UserID,
	}

	id, err := s.tickets.Create(ticket)
	if err != nil {
		return 0, err
	}
	ticket.ID = id

	s.notifier.TicketCreated(ticket)
	return id, nil
}

// UpdateStatus persists a new status and notifies. The caller's role is
// gated by the API layer; this method only validates the value itself.
func (s *TicketService) UpdateStatus(identity Identity, id int64, status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}

	ticket, err := s.tickets.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTicketNotFound
		}
		return err
	}

	if err := s.tickets.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrTicketNotFound
		}
		return err
	}

	s.notifier.StatusChanged(ticket, status)
	return nil
}

// Assign sets the assignee reference as-is; the value is not checked
// against the users table.
func (s *TicketService) Assign(identity Identity, id int64, assignedTo *int64) error {
	err := s.tickets.UpdateAssignee(id, assignedTo)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return ErrTicketNotFound
	}
	return err
}

// UpdateEstimate persists the estimated effort, which may be cleared by
// passing nil.
func (s *TicketService) UpdateEstimate(identity Identity, id int64, estimatedTime *int) error {
	if estimatedTime != nil && *estimatedTime < 0 {
		return ErrInvalidEstimate
	}

	err := s.tickets.UpdateEstimate(id, estimatedTime)
	if errors.Is(err, repository.ErrNoRowsAffected) {
		return ErrTicketNotFound
	}
	return err
}

// Stats aggregates ticket counts under the List visibility rule.
func (s *TicketService) Stats(identity Identity) (*models.TicketStats, error) {
	if s.capabilities.CanViewAllTickets(identity.Role) {
		return s.tickets.StatusCounts(nil)
	}
	owner := identity.UserID
	return s.tickets.StatusCounts(&owner)
}

// ListAssignableUsers backs the admin assignment picker.
func (s *TicketService) ListAssignableUsers() ([]models.AssignableUser, error) {
	return s.users.ListAssignable()
}

// ServiceCatalog is the static list of departments a ticket can target.
func (s *TicketService) ServiceCatalog() []models.ServiceEntry {
	return []models.ServiceEntry{
		{ID: "commercial", Name: "Commercial", Description: "Gestion commerciale et ventes"},
		{ID: "technique", Name: "Technique", Description: "Support technique et maintenance"},
		{ID: "support", Name: "Support", Description: "Support client et assistance"},
		{ID: "client", Name: "Client", Description: "Demandes clients générales"},
	}
}
