package models

import "time"

// Wire values are kept identical to the historical database contents,
// including the French status and priority names.
const (
	StatusNew        = "nouveau"
	StatusInProgress = "en_cours"
	StatusDone       = "termine"
	StatusCancelled  = "annule"

	PriorityLow    = "basse"
	PriorityNormal = "normale"
	PriorityHigh   = "haute"
)

// DefaultService is used when a ticket is created without a service tag.
const DefaultService = "Général"

func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

type Ticket struct {
	ID               int64     `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Status           string    `json:"status" db:"status"`
	Priority         string    `json:"priority" db:"priority"`
	Service          string    `json:"service" db:"service"`
	ServiceDemandeur string    `json:"service_demandeur" db:"service_demandeur"`
	NomDemandeur     string    `json:"nom_demandeur" db:"nom_demandeur"`
	EstimatedTime    *int      `json:"estimated_time" db:"estimated_time"`
	UserID           int64     `json:"user_id" db:"user_id"`
	AssignedTo       *int64    `json:"assigned_to" db:"assigned_to"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	// Joined display names, present on list/get responses.
	UserName     *string `json:"user_name" db:"user_name"`
	AssignedName *string `json:"assigned_name" db:"assigned_name"`
}

type CreateTicketRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Priority         string `json:"priority"`
	Service          string `json:"service"`
	ServiceDemandeur string `json:"service_demandeur"`
	NomDemandeur     string `json:"nom_demandeur"`
	EstimatedTime    *int   `json:"estimated_time"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignRequest struct {
	AssignedTo *int64 `json:"assigned_to"`
}

type UpdateEstimateRequest struct {
	EstimatedTime *int `json:"estimated_time"`
}

// TicketStats mirrors the stats overview payload. Cancelled tickets count
// toward the total but have no dedicated bucket.
type TicketStats struct {
	Total   int `json:"total"`
	Nouveau int `json:"nouveau"`
	EnCours int `json:"en_cours"`
	Termine int `json:"termine"`
}

// ServiceEntry is one row of the static services catalog.
type ServiceEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
