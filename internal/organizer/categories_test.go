package organizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestRegistrySetCustomAssignsIDs(t *testing.T) {
	r := NewCategoryRegistry()
	r.newID = sequentialIDs()

	r.SetCustom([]domain.Category{
		{ID: "keep", Name: "Kept"},
		{Name: "Fresh"},
		{Name: "  "},
	})

	got := r.Custom()
	require.Len(t, got, 2)
	assert.Equal(t, domain.Category{ID: "keep", Name: "Kept", Custom: true}, got[0])
	assert.Equal(t, "id-1", got[1].ID)
	assert.True(t, got[1].Custom)
}

func TestRegistrySetGeneratedDropsCustomAndBlank(t *testing.T) {
	r := NewCategoryRegistry()
	r.SetGenerated([]domain.Category{
		{Name: "Science", Description: "s"},
		{Name: "Mine", Custom: true},
		{Name: ""},
	})
	assert.Equal(t, []domain.Category{{Name: "Science", Description: "s"}}, r.Generated())
}

func TestRegistryCopiesAreIndependent(t *testing.T) {
	r := NewCategoryRegistry()
	_, err := r.Add("One")
	require.NoError(t, err)

	custom := r.Custom()
	custom[0].Name = "changed"
	assert.Equal(t, "One", r.Custom()[0].Name)

	all := r.All()
	all[0].Name = "changed"
	assert.Equal(t, "Technology", r.All()[0].Name)
}

func TestRegistryDeleteKeepsOrder(t *testing.T) {
	r := NewCategoryRegistry()
	r.newID = sequentialIDs()
	for _, name := range []string{"A", "B", "C"} {
		_, err := r.Add(name)
		require.NoError(t, err)
	}

	require.NoError(t, r.Delete("id-2"))
	custom := r.Custom()
	require.Len(t, custom, 2)
	assert.Equal(t, "A", custom[0].Name)
	assert.Equal(t, "C", custom[1].Name)
}
