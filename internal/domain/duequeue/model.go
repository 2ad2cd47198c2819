// Package duequeue builds the nursing shift medication queue: every
// administrable order for every admitted patient in scope, bucketed by
// urgency against the shift window.
package duequeue

import (
	"time"

	"github.com/google/uuid"

	"github.com/ehr/medsafety/internal/domain/schedule"
)

// DueStatus classifies a scheduled dose relative to now.
type DueStatus string

const (
	StatusOverdue  DueStatus = "OVERDUE"
	StatusDueNow   DueStatus = "DUE_NOW"
	StatusUpcoming DueStatus = "UPCOMING"
	StatusPRN      DueStatus = "PRN"
)

// Classification thresholds in minutes from now.
const (
	overdueThreshold  = -30
	upcomingThreshold = 30
)

// Entry is one dose on the nursing display: a scheduled dose joined with
// patient and location context. Ephemeral and request-scoped — never stored.
type Entry struct {
	OrderID     uuid.UUID `json:"order_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	MRN         string    `json:"mrn"`
	Ward        string    `json:"ward"`
	Bed         string    `json:"bed"`

	DrugName    string  `json:"drug_name"`
	GenericName string  `json:"generic_name,omitempty"`
	Dose        float64 `json:"dose"`
	DoseUnit    string  `json:"dose_unit"`
	Route       string  `json:"route"`
	Frequency   string  `json:"frequency"`

	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	MinutesFromNow int        `json:"minutes_from_now"`
	OverdueMinutes int        `json:"overdue_minutes,omitempty"`
	Status         DueStatus  `json:"status"`

	HighAlert         bool     `json:"high_alert"`
	HighAlertCategory string   `json:"high_alert_category,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`
}

// Summary carries per-bucket counts for the queue header.
type Summary struct {
	Overdue   int `json:"overdue"`
	DueNow    int `json:"due_now"`
	Upcoming  int `json:"upcoming"`
	PRN       int `json:"prn"`
	HighAlert int `json:"high_alert"`
}

// Queue is the four-bucket due-medication view for one shift window.
type Queue struct {
	Shift       schedule.Shift `json:"shift"`
	WindowStart time.Time      `json:"window_start"`
	WindowEnd   time.Time      `json:"window_end"`
	GeneratedAt time.Time      `json:"generated_at"`

	Overdue  []*Entry `json:"overdue"`
	DueNow   []*Entry `json:"due_now"`
	Upcoming []*Entry `json:"upcoming"`
	PRN      []*Entry `json:"prn"`

	Summary Summary `json:"summary"`
}
