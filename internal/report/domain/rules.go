package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// SLA windows applied when a report is created without an explicit
// estimated resolution. Computed once; later priority changes do not
// move the estimate.
var slaWindows = map[Priority]time.Duration{
	PriorityUrgent: 24 * time.Hour,
	PriorityHigh:   3 * 24 * time.Hour,
	PriorityMedium: 7 * 24 * time.Hour,
	PriorityLow:    14 * 24 * time.Hour,
}

// SLAWindow returns the resolution window for a priority.
func SLAWindow(p Priority) time.Duration {
	return slaWindows[p]
}

// GenerateNumber builds a report number of the form RPT<YYYY><MM><RRRR>.
// random must be in [0, 10000).
func GenerateNumber(now time.Time, random int) string {
	return fmt.Sprintf("RPT%04d%02d%04d", now.Year(), int(now.Month()), random)
}

// PrepareForCreate fills generated fields on a new report: number,
// initial status, and the SLA-derived estimated resolution.
func PrepareForCreate(r *Report, now time.Time, random int) error {
	if !r.ReportType.Valid() {
		return ErrInvalidType
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !r.Priority.Valid() {
		return ErrInvalidPriority
	}
	if r.ReportNumber == "" {
		r.ReportNumber = GenerateNumber(now, random)
	}
	if r.Status == "" {
		r.Status = StatusSubmitted
	}
	if r.EstimatedResolution == nil {
		est := now.Add(SLAWindow(r.Priority))
		r.EstimatedResolution = &est
	}
	return nil
}

// transitions is the legal status graph. Resolved reports may only be
// closed; closed and rejected are terminal.
var transitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview, StatusInProgress, StatusRejected},
	StatusUnderReview: {StatusInProgress, StatusResolved, StatusRejected},
	StatusInProgress:  {StatusResolved},
	StatusResolved:    {StatusClosed},
	StatusClosed:      {},
	StatusRejected:    {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplyStatus moves the report to a new status, stamping the actual
// resolution the first time it becomes resolved.
func ApplyStatus(r *Report, to Status, now time.Time) error {
	if !to.Valid() {
		return ErrInvalidStatus
	}
	if !CanTransition(r.Status, to) {
		return ErrStatusTransition
	}
	r.Status = to
	if to == StatusResolved && r.ActualResolution == nil {
		r.ActualResolution = &now
	}
	return nil
}

// AppendNote adds an entry to the internal log. Existing entries are
// never modified or removed.
func AppendNote(r *Report, note string, author snowflake.ID, now time.Time) {
	r.InternalNotes = append(r.InternalNotes, InternalNote{
		Note:    note,
		AddedBy: author,
		AddedAt: now,
	})
}

// ApplyResolution records resolution details and forces the report into
// the resolved state regardless of intermediate steps.
func ApplyResolution(r *Report, res Resolution, now time.Time) error {
	if res.Description == "" {
		return ErrInvalidResolution
	}
	if r.Status == StatusClosed || r.Status == StatusRejected {
		return ErrStatusTransition
	}
	res.ResolvedAt = now
	r.Resolution = &res
	r.Status = StatusResolved
	if r.ActualResolution == nil {
		r.ActualResolution = &now
	}
	return nil
}
