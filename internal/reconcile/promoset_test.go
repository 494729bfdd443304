package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mlbschedule/ingestion/internal/models"
)

func promosNamed(names ...string) []*models.Promotion {
	promos := make([]*models.Promotion, 0, len(names))
	for _, name := range names {
		promos = append(promos, &models.Promotion{Name: name})
	}
	return promos
}

func TestPromoSetsMatch(t *testing.T) {
	t.Run("identical sets", func(t *testing.T) {
		assert.True(t, PromoSetsMatch(
			promosNamed("Bobblehead", "Hat Giveaway"),
			promosNamed("Bobblehead", "Hat Giveaway"),
		))
	})

	t.Run("order independent", func(t *testing.T) {
		assert.True(t, PromoSetsMatch(
			promosNamed("Bobblehead", "Hat Giveaway"),
			promosNamed("Hat Giveaway", "Bobblehead"),
		))
	})

	t.Run("both empty", func(t *testing.T) {
		assert.True(t, PromoSetsMatch(nil, nil))
		assert.True(t, PromoSetsMatch(promosNamed(), nil))
	})

	t.Run("added promo", func(t *testing.T) {
		assert.False(t, PromoSetsMatch(
			promosNamed("Bobblehead"),
			promosNamed("Bobblehead", "Tote Bag"),
		))
	})

	t.Run("swapped promo", func(t *testing.T) {
		assert.False(t, PromoSetsMatch(
			promosNamed("Bobblehead", "Hat Giveaway"),
			promosNamed("Bobblehead", "Tote Bag"),
		))
	})

	t.Run("common promos carry no signal", func(t *testing.T) {
		assert.True(t, PromoSetsMatch(
			promosNamed("Bobblehead", "Fireworks Show"),
			promosNamed("Bobblehead"),
		), "Fireworks Show recurs every home game and should be ignored")
		assert.True(t, PromoSetsMatch(
			promosNamed("Fireworks Show", "Taco Tuesdays", "Kids Run the Bases"),
			nil,
		), "A set of only common promos should equal the empty set")
	})

	t.Run("duplicate names collapse", func(t *testing.T) {
		assert.True(t, PromoSetsMatch(
			promosNamed("Bobblehead", "Bobblehead"),
			promosNamed("Bobblehead"),
		))
	})
}
