package domain

import "time"

// Lifecycle is the shared active/inactive/soft-deleted state machine embedded
// by Store, Brand, Category, Product and StoreItem. Soft delete implies
// inactive; reactivation clears the deletion timestamp. Every transition
// refreshes UpdatedAt.
type Lifecycle struct {
	Active    bool       `json:"active"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newLifecycle() Lifecycle {
	now := time.Now().UTC()
	return Lifecycle{Active: true, CreatedAt: now, UpdatedAt: now}
}

// Activate marks the entity active and clears any soft-delete timestamp.
func (l *Lifecycle) Activate() {
	l.Active = true
	l.DeletedAt = nil
	l.touch()
}

// Deactivate marks the entity inactive without deleting it.
func (l *Lifecycle) Deactivate() {
	l.Active = false
	l.touch()
}

// SoftDelete stamps the deletion time and forces the entity inactive.
func (l *Lifecycle) SoftDelete() {
	now := time.Now().UTC()
	l.DeletedAt = &now
	l.Active = false
	l.UpdatedAt = now
}

// Deleted reports whether the entity is soft-deleted.
func (l *Lifecycle) Deleted() bool { return l.DeletedAt != nil }

func (l *Lifecycle) touch() { l.UpdatedAt = time.Now().UTC() }
