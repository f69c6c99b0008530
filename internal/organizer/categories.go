package organizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// CategoryRegistry holds the generated taxonomy and the user's custom
// categories. It starts with the default catalog.
type CategoryRegistry struct {
	mu        sync.RWMutex
	generated []domain.Category
	custom    []domain.Category
	newID     func() string
}

// NewCategoryRegistry returns a registry seeded with the defaults.
func NewCategoryRegistry() *CategoryRegistry {
	return &CategoryRegistry{
		generated: domain.DefaultCategories(),
		custom:    []domain.Category{},
		newID:     uuid.NewString,
	}
}

// All returns generated categories followed by custom ones.
func (r *CategoryRegistry) All() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.generated)+len(r.custom))
	out = append(out, r.generated...)
	return append(out, r.custom...)
}

// Generated returns the current generated taxonomy.
func (r *CategoryRegistry) Generated() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Category{}, r.generated...)
}

// Custom returns the custom categories in insertion order.
func (r *CategoryRegistry) Custom() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Category{}, r.custom...)
}

// SetGenerated replaces the generated taxonomy. Entries flagged custom are
// ignored so an exported "categories" list can be imported back as is.
func (r *CategoryRegistry) SetGenerated(categories []domain.Category) {
	kept := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.Custom || strings.TrimSpace(c.Name) == "" {
			continue
		}
		kept = append(kept, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated = kept
}

// SetCustom replaces the custom set. Entries without an id get one and every
// entry is flagged custom.
func (r *CategoryRegistry) SetCustom(categories []domain.Category) {
	kept := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if c.ID == "" {
			c.ID = r.newID()
		}
		c.Custom = true
		kept = append(kept, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = kept
}

// Add creates a custom category. Names are unique case-insensitively among
// custom categories.
func (r *CategoryRegistry) Add(name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, fmt.Errorf("category name is required: %w", ErrInvalid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.custom {
		if c.SameName(name) {
			return domain.Category{}, fmt.Errorf("category %q: %w", name, ErrConflict)
		}
	}

	c := domain.Category{
		ID:          r.newID(),
		Name:        name,
		Description: "Custom category: " + name,
		Custom:      true,
	}
	r.custom = append(r.custom, c)
	return c, nil
}

// Delete removes a custom category by id.
func (r *CategoryRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.custom {
		if c.ID == id {
			r.custom = append(r.custom[:i], r.custom[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, ErrNotFound)
}

// Reset drops custom categories and restores the default taxonomy.
func (r *CategoryRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated = domain.DefaultCategories()
	r.custom = []domain.Category{}
}
