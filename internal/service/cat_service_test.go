package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawshome/internal/models"
)

func TestCatFromInputDefaultsStatus(t *testing.T) {
	cat, err := catFromInput(CatInput{Name: "  Miso  "})
	require.NoError(t, err)

	assert.Equal(t, "Miso", cat.Name)
	assert.Equal(t, models.CatStatusAvailable, cat.Status)
}

func TestCatFromInputRejectsEmptyName(t *testing.T) {
	_, err := catFromInput(CatInput{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatFromInputStatusEnum(t *testing.T) {
	for _, status := range []string{"available", "pending", "adopted"} {
		cat, err := catFromInput(CatInput{Name: "Miso", Status: status})
		require.NoError(t, err)
		assert.Equal(t, models.CatStatus(status), cat.Status)
	}

	_, err := catFromInput(CatInput{Name: "Miso", Status: "missing"})
	assert.ErrorIs(t, err, ErrValidation)
}
