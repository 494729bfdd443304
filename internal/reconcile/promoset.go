package reconcile

import "mlbschedule/ingestion/internal/models"

// commonPromotions recur every home game, so their presence carries no
// identity signal and must not trigger a "promotions changed" classification.
var commonPromotions = map[string]struct{}{
	"Fireworks Show":     {},
	"Taco Tuesdays":      {},
	"Kids Run the Bases": {},
}

func promoNameSet(promos []*models.Promotion) map[string]struct{} {
	names := make(map[string]struct{}, len(promos))
	for _, promo := range promos {
		if _, common := commonPromotions[promo.Name]; common {
			continue
		}
		names[promo.Name] = struct{}{}
	}
	return names
}

// PromoSetsMatch reports whether two promotion collections carry the same
// offers by name, after subtracting the common promotions from both sides.
// Order-independent; a false return means the caller should replace the
// stored set wholesale. Reconciling an unchanged feed against itself always
// matches, which is what makes the replace path idempotent.
func PromoSetsMatch(existing, fetched []*models.Promotion) bool {
	existingNames := promoNameSet(existing)
	fetchedNames := promoNameSet(fetched)

	if len(existingNames) != len(fetchedNames) {
		return false
	}
	for name := range existingNames {
		if _, ok := fetchedNames[name]; !ok {
			return false
		}
	}
	return true
}
