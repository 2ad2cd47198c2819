package duequeue

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ehr/medsafety/internal/domain/medication"
	"github.com/ehr/medsafety/internal/domain/schedule"
	"github.com/ehr/medsafety/internal/reference"
)

// queueWorkers bounds the per-admission classification fan-out.
const queueWorkers = 8

// Classifier buckets a single admission's orders against a shift window.
// It is pure: same inputs always produce the same entries, in order.
type Classifier struct {
	resolver *schedule.Resolver
	ref      reference.Data
}

func NewClassifier(ref reference.Data) *Classifier {
	return &Classifier{resolver: schedule.NewResolver(ref), ref: ref}
}

// Admission returns one entry per in-window scheduled dose of every
// administrable order, plus one entry per PRN order. Held, stopped,
// completed and undispensed orders are excluded entirely.
func (c *Classifier) Admission(adm *medication.Admission, win schedule.Window, now time.Time) []*Entry {
	var entries []*Entry
	for _, order := range adm.Orders {
		if !order.Administrable() {
			continue
		}

		if c.resolver.IsPRN(order.Frequency) {
			e := c.newEntry(adm, order)
			e.Status = StatusPRN
			entries = append(entries, e)
			continue
		}

		for _, anchor := range c.anchorsInWindow(order.Frequency, win) {
			anchor := anchor
			e := c.newEntry(adm, order)
			e.ScheduledAt = &anchor
			e.MinutesFromNow = int(anchor.Sub(now).Minutes())
			switch {
			case e.MinutesFromNow < overdueThreshold:
				e.Status = StatusOverdue
				e.OverdueMinutes = -e.MinutesFromNow
			case e.MinutesFromNow <= upcomingThreshold:
				e.Status = StatusDueNow
			default:
				e.Status = StatusUpcoming
			}
			entries = append(entries, e)
		}
	}
	return entries
}

// anchorsInWindow resolves the frequency on each calendar date the window
// touches and keeps the instants inside it. The night window is the only
// one that spans two dates.
func (c *Classifier) anchorsInWindow(frequency string, win schedule.Window) []time.Time {
	anchors := c.resolver.Resolve(frequency, win.Start)
	if win.End.Day() != win.Start.Day() {
		anchors = append(anchors, c.resolver.Resolve(frequency, win.End)...)
	}

	out := anchors[:0]
	for _, a := range anchors {
		if win.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

func (c *Classifier) newEntry(adm *medication.Admission, order *medication.MedicationOrder) *Entry {
	e := &Entry{
		OrderID:     order.ID,
		PatientID:   order.PatientID,
		Ward:        adm.Ward,
		Bed:         adm.Bed,
		DrugName:    order.DrugName,
		GenericName: order.GenericName,
		Dose:        order.Dose,
		DoseUnit:    order.DoseUnit,
		Route:       order.Route,
		Frequency:   order.Frequency,
	}
	if adm.Patient != nil {
		e.PatientName = adm.Patient.FullName()
		e.MRN = adm.Patient.MRN
		e.Allergies = adm.Patient.Allergies
	}
	if m := c.ref.ClassifyHighAlert(order.DrugName); m.IsHighAlert {
		e.HighAlert = true
		e.HighAlertCategory = m.Category
	}
	return e
}

// Service assembles the shift queue: load admissions in scope, classify each
// concurrently, then merge into a deterministically ordered Queue.
type Service struct {
	repo       medication.Repository
	classifier *Classifier
}

func NewService(repo medication.Repository, ref reference.Data) *Service {
	return &Service{repo: repo, classifier: NewClassifier(ref)}
}

// BuildQueue computes the due-medication queue as of now. An empty shift
// auto-detects the one in progress; an empty ward includes all wards.
// The result is ephemeral — rebuilding with identical inputs yields an
// identical queue.
func (s *Service) BuildQueue(ctx context.Context, shift schedule.Shift, ward string, now time.Time) (*Queue, error) {
	var win schedule.Window
	if shift == "" {
		shift, win = schedule.DetectWindow(now)
	} else {
		win = schedule.WindowFor(shift, now)
	}

	admissions, err := s.repo.ListActiveAdmissions(ctx, ward)
	if err != nil {
		return nil, fmt.Errorf("list active admissions: %w", err)
	}

	results := make([][]*Entry, len(admissions))
	g := new(errgroup.Group)
	g.SetLimit(queueWorkers)
	for i, adm := range admissions {
		i, adm := i, adm
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.classifier.Admission(adm, win, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := &Queue{
		Shift:       shift,
		WindowStart: win.Start,
		WindowEnd:   win.End,
		GeneratedAt: now,
		Overdue:     []*Entry{},
		DueNow:      []*Entry{},
		Upcoming:    []*Entry{},
		PRN:         []*Entry{},
	}
	for _, entries := range results {
		for _, e := range entries {
			switch e.Status {
			case StatusOverdue:
				q.Overdue = append(q.Overdue, e)
			case StatusDueNow:
				q.DueNow = append(q.DueNow, e)
			case StatusUpcoming:
				q.Upcoming = append(q.Upcoming, e)
			case StatusPRN:
				q.PRN = append(q.PRN, e)
			}
		}
	}
	sortQueue(q)

	q.Summary = Summary{
		Overdue:  len(q.Overdue),
		DueNow:   len(q.DueNow),
		Upcoming: len(q.Upcoming),
		PRN:      len(q.PRN),
	}
	for _, bucket := range [][]*Entry{q.Overdue, q.DueNow, q.Upcoming, q.PRN} {
		for _, e := range bucket {
			if e.HighAlert {
				q.Summary.HighAlert++
			}
		}
	}
	return q, nil
}

// sortQueue fixes the bucket orders: most-overdue first, then soonest first
// for due-now and upcoming, PRN alphabetical by patient. Order ID breaks
// every tie so rebuilds are byte-stable regardless of fan-out scheduling.
func sortQueue(q *Queue) {
	sort.Slice(q.Overdue, func(i, j int) bool {
		a, b := q.Overdue[i], q.Overdue[j]
		if a.OverdueMinutes != b.OverdueMinutes {
			return a.OverdueMinutes > b.OverdueMinutes
		}
		return a.OrderID.String() < b.OrderID.String()
	})
	bySoonest := func(list []*Entry) {
		sort.Slice(list, func(i, j int) bool {
			a, b := list[i], list[j]
			if a.MinutesFromNow != b.MinutesFromNow {
				return a.MinutesFromNow < b.MinutesFromNow
			}
			return a.OrderID.String() < b.OrderID.String()
		})
	}
	bySoonest(q.DueNow)
	bySoonest(q.Upcoming)
	sort.Slice(q.PRN, func(i, j int) bool {
		a, b := q.PRN[i], q.PRN[j]
		if a.PatientName != b.PatientName {
			return a.PatientName < b.PatientName
		}
		if a.DrugName != b.DrugName {
			return a.DrugName < b.DrugName
		}
		return a.OrderID.String() < b.OrderID.String()
	})
}
