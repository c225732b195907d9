package service

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/models"
	"github.com/ticketdesk-io/ticketdesk/internal/repository"
)

// recordingNotifier captures notification calls without sending anything.
type recordingNotifier struct {
	created       []int64
	statusChanges []string
}

func (n *recordingNotifier) TicketCreated(t *models.Ticket) {
	n.created = append(n.created, t.ID)
}

func (n *recordingNotifier) StatusChanged(t *models.Ticket, newStatus string) {
	n.statusChanges = append(n.statusChanges, newStatus)
}

func newTestTicketService(t *testing.T) (*TicketService, sqlmock.Sqlmock, *recordingNotifier) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	notifier := &recordingNotifier{}
	svc := NewTicketService(
		repository.NewTicketRepository(sqlxDB),
		repository.NewUserRepository(sqlxDB),
		auth.NewCapabilities(),
		notifier,
	)
	return svc, mock, notifier
}

func ticketColumns() []string {
	return []string{
		"id", "title", "description", "status", "priority", "service",
		"service_demandeur", "nom_demandeur", "estimated_time",
		"user_id", "assigned_to", "created_at", "updated_at",
		"user_name", "assigned_name",
	}
}

func ticketRow(id, userID int64, status string) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, "T1", "D1", status, "normale", "Général",
		"IT", "Alice", nil,
		userID, nil, now, now,
		"alice", nil,
	}
}

var (
	staff  = Identity{UserID: 7, Role: "technicien"}
	admin  = Identity{UserID: 1, Role: "admin"}
	client = Identity{UserID: 42, Role: "client"}
)

func TestListVisibility(t *testing.T) {
	t.Run("Staff sees all tickets", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		rows := sqlmock.NewRows(ticketColumns()).
			AddRow(ticketRow(2, 42, "nouveau")...).
			AddRow(ticketRow(1, 7, "en_cours")...)
		mock.ExpectQuery("FROM tickets t").WillReturnRows(rows)

		tickets, err := svc.List(staff)
		require.NoError(t, err)
		assert.Len(t, tickets, 2)
	})

	t.Run("Client list is scoped to own tickets", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		rows := sqlmock.NewRows(ticketColumns()).
			AddRow(ticketRow(2, 42, "nouveau")...)
		mock.ExpectQuery("WHERE t.user_id").
			WithArgs(int64(42)).
			WillReturnRows(rows)

		tickets, err := svc.List(client)
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, int64(42), tickets[0].UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetVisibility(t *testing.T) {
	t.Run("Admin fetches any ticket", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		rows := sqlmock.NewRows(ticketColumns()).AddRow(ticketRow(5, 42, "nouveau")...)
		mock.ExpectQuery("WHERE t.id").WithArgs(int64(5)).WillReturnRows(rows)

		ticket, err := svc.Get(admin, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), ticket.ID)
	})

	t.Run("Foreign ticket looks missing to a client", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		mock.ExpectQuery("WHERE t.id").
			WithArgs(int64(5), int64(42)).
			WillReturnError(sql.ErrNoRows)

		_, err := svc.Get(client, 5)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestCreateTicket(t *testing.T) {
	t.Run("Valid request persists and notifies", func(t *testing.T) {
		svc, mock, notifier := newTestTicketService(t)
		mock.ExpectExec("INSERT INTO tickets").
			WithArgs("T1", "D1", "normale", "Général", "IT", "Alice", nil, int64(42)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		id, err := svc.Create(client, &models.CreateTicketRequest{
			Title:            "T1",
			Description:      "D1",
			ServiceDemandeur: "IT",
			NomDemandeur:     "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, []int64{1}, notifier.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing title persists nothing", func(t *testing.T) {
		svc, mock, notifier := newTestTicketService(t)

		_, err := svc.Create(client, &models.CreateTicketRequest{
			Description:      "D1",
			ServiceDemandeur: "IT",
			NomDemandeur:     "Alice",
		})
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.Empty(t, notifier.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing description persists nothing", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)

		_, err := svc.Create(client, &models.CreateTicketRequest{
			Title:            "T1",
			ServiceDemandeur: "IT",
			NomDemandeur:     "Alice",
		})
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown priority is rejected", func(t *testing.T) {
		svc, _, _ := newTestTicketService(t)

		_, err := svc.Create(client, &models.CreateTicketRequest{
			Title:            "T1",
			Description:      "D1",
			Priority:         "urgente",
			ServiceDemandeur: "IT",
			NomDemandeur:     "Alice",
		})
		assert.ErrorIs(t, err, ErrInvalidPriority)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("Valid transition updates and notifies", func(t *testing.T) {
		svc, mock, notifier := newTestTicketService(t)
		rows := sqlmock.NewRows(ticketColumns()).AddRow(ticketRow(3, 42, "nouveau")...)
		mock.ExpectQuery("WHERE t.id").WithArgs(int64(3)).WillReturnRows(rows)
		mock.ExpectExec("UPDATE tickets SET status").
			WithArgs("en_cours", int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.UpdateStatus(staff, 3, "en_cours")
		require.NoError(t, err)
		assert.Equal(t, []string{"en_cours"}, notifier.statusChanges)
	})

	t.Run("Unknown status leaves the row unchanged", func(t *testing.T) {
		svc, mock, notifier := newTestTicketService(t)

		err := svc.UpdateStatus(staff, 3, "resolved")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Empty(t, notifier.statusChanges)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing ticket", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		mock.ExpectQuery("WHERE t.id").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

		err := svc.UpdateStatus(staff, 99, "en_cours")
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestAssign(t *testing.T) {
	t.Run("Assignment is stored as-is", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		assignee := int64(7)
		mock.ExpectExec("UPDATE tickets SET assigned_to").
			WithArgs(assignee, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, svc.Assign(admin, 3, &assignee))
	})

	t.Run("Missing ticket", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		assignee := int64(7)
		mock.ExpectExec("UPDATE tickets SET assigned_to").
			WithArgs(assignee, int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := svc.Assign(admin, 99, &assignee)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestUpdateEstimate(t *testing.T) {
	t.Run("Negative estimate is rejected", func(t *testing.T) {
		svc, _, _ := newTestTicketService(t)
		bad := -4
		err := svc.UpdateEstimate(staff, 3, &bad)
		assert.ErrorIs(t, err, ErrInvalidEstimate)
	})

	t.Run("Nil clears the estimate", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		mock.ExpectExec("UPDATE tickets SET estimated_time").
			WithArgs(nil, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, svc.UpdateEstimate(staff, 3, nil))
	})

	t.Run("Valid estimate is stored", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		hours := 8
		mock.ExpectExec("UPDATE tickets SET estimated_time").
			WithArgs(&hours, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, svc.UpdateEstimate(staff, 3, &hours))
	})
}

func TestStats(t *testing.T) {
	countRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"status", "count"}).
			AddRow("nouveau", 3).
			AddRow("en_cours", 2).
			AddRow("termine", 1).
			AddRow("annule", 1)
	}

	t.Run("Staff stats cover all tickets", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		mock.ExpectQuery("GROUP BY status").WillReturnRows(countRows())

		stats, err := svc.Stats(staff)
		require.NoError(t, err)
		assert.Equal(t, 7, stats.Total)
		assert.Equal(t, 3, stats.Nouveau)
		assert.Equal(t, 2, stats.EnCours)
		assert.Equal(t, 1, stats.Termine)
	})

	t.Run("Client stats are scoped to own tickets", func(t *testing.T) {
		svc, mock, _ := newTestTicketService(t)
		mock.ExpectQuery("WHERE user_id").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("nouveau", 1))

		stats, err := svc.Stats(client)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1, stats.Nouveau)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
