package models

// Promotion is one promotional offer attached to a home game. Promotions are
// never mutated in place; a game's whole set is deleted and rewritten when it
// changes.
type Promotion struct {
	ID           int    `db:"id"`
	Name         string `db:"name"`
	ThumbnailURL string `db:"thumbnail_url"`
	OfferType    string `db:"offer_type"`
	GameID       int    `db:"game_id"`
}

// Matches reports identity: a shared stored ID or the same name. The name is
// the sole set key on purpose, so thumbnail or offer-type churn never makes
// two collections look different.
func (p *Promotion) Matches(other *Promotion) bool {
	if other == nil {
		return false
	}
	if p.ID != 0 && p.ID == other.ID {
		return true
	}
	return p.Name == other.Name
}
