package auth

import "github.com/ticketdesk-io/ticketdesk/internal/models"

type Action string

const (
	// Ticket actions
	ActionTicketViewAll      Action = "ticket:view-all"
	ActionTicketUpdateStatus Action = "ticket:update-status"
	ActionTicketAssign       Action = "ticket:assign"
	ActionTicketEstimate     Action = "ticket:estimate"

	// User actions
	ActionUserList Action = "user:list"
)

// Capabilities maps each role to its permitted actions. The role gate in
// the API layer and the visibility rules in the ticket service both
// consult this table instead of branching on role strings.
type Capabilities struct {
	roleActions map[models.UserRole][]Action
}

func NewCapabilities() *Capabilities {
	c := &Capabilities{
		roleActions: make(map[models.UserRole][]Action),
	}
	c.initialize()
	return c
}

func (c *Capabilities) initialize() {
	c.roleActions[models.RoleAdmin] = []Action{
		ActionTicketViewAll, ActionTicketUpdateStatus, ActionTicketAssign,
		ActionTicketEstimate, ActionUserList,
	}

	// Technicians triage and estimate but cannot assign or manage users.
	c.roleActions[models.RoleTechnician] = []Action{
		ActionTicketViewAll, ActionTicketUpdateStatus, ActionTicketEstimate,
	}

	// Collaborateurs and clients only see their own tickets.
	c.roleActions[models.RoleCollaborateur] = nil
	c.roleActions[models.RoleClient] = nil
}

func (c *Capabilities) Can(role string, action Action) bool {
	actions, exists := c.roleActions[models.UserRole(role)]
	if !exists {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// CanViewAllTickets reports whether the role sees the system-wide ticket
// list; every other role is limited to its own tickets.
func (c *Capabilities) CanViewAllTickets(role string) bool {
	return c.Can(role, ActionTicketViewAll)
}
