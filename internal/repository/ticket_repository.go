package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ticketdesk-io/ticketdesk/internal/models"
)

// ErrNoRowsAffected is returned by updates that matched no ticket.
var ErrNoRowsAffected = errors.New("no rows affected")

const ticketSelect = `
SELECT t.id, t.title, t.description, t.status, t.priority, t.service,
       t.service_demandeur, t.nom_demandeur, t.estimated_time,
       t.user_id, t.assigned_to, t.created_at, t.updated_at,
       u.username AS user_name, a.username AS assigned_name
FROM tickets t
LEFT JOIN users u ON t.user_id = u.id
LEFT JOIN users a ON t.assigned_to = a.id`

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// ListAll returns every ticket, newest first, with creator and assignee
// display names joined in.
func (r *TicketRepository) ListAll() ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	err := r.db.Select(&tickets, ticketSelect+" ORDER BY t.created_at DESC")
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListByOwner returns only tickets created by the given user, newest first.
func (r *TicketRepository) ListByOwner(userID int64) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	err := r.db.Select(&tickets, ticketSelect+" WHERE t.user_id = ? ORDER BY t.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetByID fetches a single ticket regardless of owner.
func (r *TicketRepository) GetByID(id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.Get(&ticket, ticketSelect+" WHERE t.id = ?", id)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetByIDForOwner fetches a ticket only if it belongs to the given user.
// A foreign ticket and a missing ticket are indistinguishable to the
// caller, which is what keeps the API from leaking ticket existence.
func (r *TicketRepository) GetByIDForOwner(id, userID int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.Get(&ticket, ticketSelect+" WHERE t.id = ? AND t.user_id = ?", id, userID)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Create inserts a new ticket row and returns its id. Status and
// timestamps come from the schema defaults.
func (r *TicketRepository) Create(t *models.Ticket) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO tickets (title, description, priority, service, service_demandeur, nom_demandeur, estimated_time, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Priority, t.Service, t.ServiceDemandeur, t.NomDemandeur, t.EstimatedTime, t.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *TicketRepository) UpdateStatus(id int64, status string) error {
	result, err := r.db.Exec(
		"UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *TicketRepository) UpdateAssignee(id int64, assignedTo *int64) error {
	result, err := r.db.Exec(
		"UPDATE tickets SET assigned_to = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		assignedTo, id,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *TicketRepository) UpdateEstimate(id int64, estimatedTime *int) error {
	result, err := r.db.Exec(
		"UPDATE tickets SET estimated_time = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		estimatedTime, id,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// StatusCounts aggregates per-status counts in a single query. When
// ownerID is non-nil the counts cover only that user's tickets.
func (r *TicketRepository) StatusCounts(ownerID *int64) (*models.TicketStats, error) {
	query := "SELECT status, COUNT(*) AS count FROM tickets"
	args := []interface{}{}
	if ownerID != nil {
		query += " WHERE user_id = ?"
		args = append(args, *ownerID)
	}
	query += " GROUP BY status"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.TicketStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case models.StatusNew:
			stats.Nouveau = count
		case models.StatusInProgress:
			stats.EnCours = count
		case models.StatusDone:
			stats.Termine = count
		}
	}
	return stats, rows.Err()
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
