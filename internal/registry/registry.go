// Package registry holds the in-memory collection of contact methods. The
// collection lives for the lifetime of the process; all access goes through a
// mutex so concurrent requests cannot interleave read-modify-write sequences.
package registry

import (
	"sort"
	"sync"

	"github.com/psds-microservice/contact-service/internal/model"
	"github.com/samber/lo"
)

// Registry owns the ordered collection of contact methods.
type Registry struct {
	mu      sync.RWMutex
	nextID  int
	methods []model.ContactMethod
}

func New() *Registry {
	return &Registry{}
}

// CreateParams carries the fields for a new contact method. Description and
// IsActive are pointers so "absent" and "explicitly empty/false" stay
// distinguishable.
type CreateParams struct {
	Type        string
	Label       string
	Value       string
	Description *string
	IsActive    *bool
	Order       int
}

// UpdateParams carries a partial update. Type, Label and Value apply only
// when non-empty and Order only when positive; Description and IsActive apply
// whenever present, including empty string and false.
type UpdateParams struct {
	Type        string
	Label       string
	Value       string
	Description *string
	IsActive    *bool
	Order       int
}

// OrderUpdate is one id/order pair of a bulk reorder.
type OrderUpdate struct {
	ID    int `json:"id"`
	Order int `json:"order"`
}

// List returns the methods matching the optional isActive filter, stably
// sorted ascending by display order.
func (r *Registry) List(isActive *bool) []model.ContactMethod {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := lo.Filter(r.methods, func(m model.ContactMethod, _ int) bool {
		return isActive == nil || m.IsActive == *isActive
	})
	sortByOrder(out)
	return out
}

// Get returns the method with the given id.
func (r *Registry) Get(id int) (model.ContactMethod, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.methods {
		if m.ID == id {
			return m, true
		}
	}
	return model.ContactMethod{}, false
}

// Create appends a new method. Ids come from a monotonic counter so they are
// never reused, even after deletes. Order defaults to the assigned id.
func (r *Registry) Create(p CreateParams) model.ContactMethod {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	m := model.ContactMethod{
		ID:       r.nextID,
		Type:     p.Type,
		Label:    p.Label,
		Value:    p.Value,
		IsActive: true,
		Order:    p.Order,
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
	if m.Order == 0 {
		m.Order = m.ID
	}
	r.methods = append(r.methods, m)
	return m
}

// Update applies a partial update and returns the result.
func (r *Registry) Update(id int, p UpdateParams) (model.ContactMethod, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.ContactMethod{}, false
	}
	m := &r.methods[i]
	if p.Type != "" {
		m.Type = p.Type
	}
	if p.Label != "" {
		m.Label = p.Label
	}
	if p.Value != "" {
		m.Value = p.Value
	}
	if p.Order > 0 {
		m.Order = p.Order
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
	return *m, true
}

// Delete removes the method with the given id.
func (r *Registry) Delete(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.methods = append(r.methods[:i], r.methods[i+1:]...)
	return true
}

// ToggleActive flips the isActive flag and returns the updated method.
func (r *Registry) ToggleActive(id int) (model.ContactMethod, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.ContactMethod{}, false
	}
	r.methods[i].IsActive = !r.methods[i].IsActive
	return r.methods[i], true
}

// Reorder overwrites the order of each known id; unknown ids are skipped.
// Returns the full collection re-sorted by order.
func (r *Registry) Reorder(orders []OrderUpdate) []model.ContactMethod {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range orders {
		if i := r.indexOf(o.ID); i >= 0 {
			r.methods[i].Order = o.Order
		}
	}
	out := make([]model.ContactMethod, len(r.methods))
	copy(out, r.methods)
	sortByOrder(out)
	return out
}

// indexOf must be called with the mutex held.
func (r *Registry) indexOf(id int) int {
	for i := range r.methods {
		if r.methods[i].ID == id {
			return i
		}
	}
	return -1
}

// sortByOrder is stable so order ties keep insertion order.
func sortByOrder(methods []model.ContactMethod) {
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Order < methods[j].Order
	})
}
