package shared

import (
	"time"

	"github.com/google/uuid"
)

// TimestampPrecision is the resolution timestamps are stored with
const TimestampPrecision = time.Millisecond

// BaseEntity carries the identity and timestamps shared by products and orders
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch moves UpdatedAt to now. The result is always later than the
// previous value, even when the clock has not advanced at storage precision.
func (e *BaseEntity) Touch(now time.Time) {
	now = Timestamp(now)
	if !now.After(e.UpdatedAt) {
		now = e.UpdatedAt.Add(TimestampPrecision)
	}
	e.UpdatedAt = now
}

// NewBaseEntity returns an entity with a random id created now
func NewBaseEntity() BaseEntity {
	now := Timestamp(time.Now())
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Timestamp normalizes t to UTC at storage precision
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}
