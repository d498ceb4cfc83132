package pricing

import (
	"context"

	"github.com/google/uuid"
)

// RateScheduleRepository defines the persistence interface for rate schedules
type RateScheduleRepository interface {
	// FindByID finds a rate schedule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RateSchedule, error)

	// FindBySubject finds the schedule for one (subject, kind, variant) triple
	FindBySubject(ctx context.Context, kind RateKind, subjectID uuid.UUID, variant string) (*RateSchedule, error)

	// FindBySubjects finds the schedules of a kind/variant for many subjects at once
	FindBySubjects(ctx context.Context, kind RateKind, subjectIDs []uuid.UUID, variant string) ([]RateSchedule, error)

	// FindByKind lists all schedules of a kind
	FindByKind(ctx context.Context, kind RateKind) ([]RateSchedule, error)

	// Save persists a rate schedule (insert or update)
	Save(ctx context.Context, schedule *RateSchedule) error

	// Delete removes a rate schedule
	Delete(ctx context.Context, id uuid.UUID) error
}
