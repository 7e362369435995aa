package candidate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ThresholdDays is the minimum whole days since a matching record's
// creation before its email/phone may be reused to update it.
const ThresholdDays = 90

// ErrWithinThreshold is returned when a submitted candidate matches an
// existing record (by email or phone) created less than the threshold
// ago. The store is left unchanged.
var ErrWithinThreshold = errors.New("cannot add candidate - exists within threshold")

// Match is the existing record an upsert resolved against.
type Match struct {
	ID        string
	CreatedAt time.Time
}

// Store is the record table the engine writes through. Implemented by
// storage.DB; tests substitute fakes.
type Store interface {
	// LatestMatch returns the most recently created record whose email
	// or phone matches, or nil when none does.
	LatestMatch(ctx context.Context, email, phone string) (*Match, error)
	// NameExists reports whether another record (excluding excludeID)
	// carries the same candidate name.
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	Insert(ctx context.Context, c *Candidate) error
	Update(ctx context.Context, c *Candidate) error
}

// Outcome of a successful upsert.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
)

// Result of a successful upsert. Warning is set when a different record
// already carries the same name; it never blocks the operation.
type Result struct {
	Outcome Outcome
	ID      string
	Warning string
}

// Engine decides, for a validated candidate, between inserting a new
// record, updating a matching one in place, and rejecting the submission
// because the match is too recent.
type Engine struct {
	store         Store
	thresholdDays int
	now           func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:         store,
		thresholdDays: ThresholdDays,
		now:           time.Now,
	}
}

// Upsert applies the re-add decision for a validated candidate:
//
//	no matching record            -> insert, fresh id, timestamps = now
//	match aged >= threshold days  -> update in place, id and created_at kept
//	match aged <  threshold days  -> ErrWithinThreshold, store unchanged
//
// When email and phone each match a different record, the more recently
// created of the two is the match; the other is untouched and its unique
// constraint may still reject the write.
func (e *Engine) Upsert(ctx context.Context, c Candidate) (*Result, error) {
	match, err := e.store.LatestMatch(ctx, c.Email, c.Phone)
	if err != nil {
		return nil, fmt.Errorf("lookup existing candidate: %w", err)
	}

	if match != nil {
		age := int(e.now().Sub(match.CreatedAt).Hours() / 24)
		if age < e.thresholdDays {
			return nil, fmt.Errorf("%w of %d days", ErrWithinThreshold, e.thresholdDays)
		}
	}

	excludeID := ""
	if match != nil {
		excludeID = match.ID
	}
	warning := ""
	if exists, err := e.store.NameExists(ctx, c.Name, excludeID); err == nil && exists {
		warning = "Candidate with this name already exists."
	}

	now := e.now().UTC()

	if match != nil {
		c.ID = match.ID
		c.CreatedAt = match.CreatedAt
		c.UpdatedAt = now
		if err := e.store.Update(ctx, &c); err != nil {
			return nil, err
		}
		return &Result{Outcome: OutcomeUpdated, ID: c.ID, Warning: warning}, nil
	}

	c.ID = uuid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := e.store.Insert(ctx, &c); err != nil {
		// The unique constraints are the final backstop when the
		// threshold check raced a concurrent writer.
		return nil, err
	}
	return &Result{Outcome: OutcomeInserted, ID: c.ID, Warning: warning}, nil
}
