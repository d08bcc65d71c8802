package state

import (
	"slices"

	"venuebook/internal/bookings/models"
)

// Action is a state transition. The set is closed: only this package
// defines actions.
type Action interface {
	apply(BookingsState) BookingsState
}

// Set replaces a whole collection.
type Set[T Entity] struct {
	Items []T
}

// Add appends one item.
type Add[T Entity] struct {
	Item T
}

// Update merges Patch into the item with ID. Unknown ids are a no-op.
type Update[T Entity] struct {
	ID    string
	Patch models.Patch
}

// Delete removes the item with ID.
type Delete[T Entity] struct {
	ID string
}

type SetSettings struct {
	Settings models.BookingSettings
}

type SetStats struct {
	Stats models.BookingStats
}

// SetTenant records the selection and the base path data was read from.
type SetTenant struct {
	Tenant   models.TenantContext
	BasePath string
}

type SetLoading struct {
	Loading bool
}

// SetError sets or, with an empty message, clears the error.
type SetError struct {
	Message string
}

type SetInitialized struct {
	Initialized bool
}

// Batch applies its actions as a single transition.
type Batch []Action

// Reset returns to the initial state.
type Reset struct{}

func (a Set[T]) apply(s BookingsState) BookingsState {
	items := a.Items
	if items == nil {
		items = []T{}
	}
	*slot[T](&s) = items
	return s
}

func (a Add[T]) apply(s BookingsState) BookingsState {
	p := slot[T](&s)
	next := make([]T, len(*p), len(*p)+1)
	copy(next, *p)
	*p = append(next, a.Item)
	return s
}

func (a Update[T]) apply(s BookingsState) BookingsState {
	p := slot[T](&s)
	i := slices.IndexFunc(*p, func(item T) bool { return item.Key() == a.ID })
	if i < 0 {
		return s
	}
	merged, err := models.ApplyPatch((*p)[i], a.Patch)
	if err != nil {
		return s
	}
	next := slices.Clone(*p)
	next[i] = merged
	*p = next
	return s
}

func (a Delete[T]) apply(s BookingsState) BookingsState {
	p := slot[T](&s)
	if !slices.ContainsFunc(*p, func(item T) bool { return item.Key() == a.ID }) {
		return s
	}
	next := make([]T, 0, len(*p)-1)
	for _, item := range *p {
		if item.Key() != a.ID {
			next = append(next, item)
		}
	}
	*p = next
	return s
}

func (a SetSettings) apply(s BookingsState) BookingsState {
	s.Settings = a.Settings
	return s
}

func (a SetStats) apply(s BookingsState) BookingsState {
	s.Stats = a.Stats
	return s
}

func (a SetTenant) apply(s BookingsState) BookingsState {
	s.Tenant = a.Tenant
	s.BasePath = a.BasePath
	return s
}

func (a SetLoading) apply(s BookingsState) BookingsState {
	s.Loading = a.Loading
	return s
}

func (a SetError) apply(s BookingsState) BookingsState {
	s.Error = a.Message
	return s
}

func (a SetInitialized) apply(s BookingsState) BookingsState {
	s.Initialized = a.Initialized
	return s
}

func (a Batch) apply(s BookingsState) BookingsState {
	for _, action := range a {
		s = Reduce(s, action)
	}
	return s
}

func (Reset) apply(BookingsState) BookingsState {
	return Initial()
}

// Reduce applies action to s. It performs no I/O; a nil action returns s.
func Reduce(s BookingsState, action Action) BookingsState {
	if action == nil {
		return s
	}
	return action.apply(s)
}
