package models

// Team represents one MLB club referenced by the schedule.
// Teams are created lazily the first time a game payload mentions them;
// wins and losses are maintained separately by the standings refresh.
type Team struct {
	ID           int    `db:"id"`
	Name         string `db:"team_name"` // club name, e.g. "Dodgers"
	City         string `db:"city_name"` // franchise name, e.g. "Los Angeles"
	LogoURL      string `db:"team_logo"`
	Abbreviation string `db:"abbreviation"`
	Wins         int    `db:"wins"`
	Losses       int    `db:"losses"`
}

// FullName is the name the standings feed keys teams by,
// e.g. "Los Angeles Dodgers".
func (t *Team) FullName() string {
	return t.City + " " + t.Name
}

// Matches reports row identity: a shared stored ID, or the same city and
// club name for rows that have not been persisted yet.
func (t *Team) Matches(other *Team) bool {
	if other == nil {
		return false
	}
	if t == other {
		return true
	}
	if t.ID != 0 && t.ID == other.ID {
		return true
	}
	return t.City == other.City && t.Name == other.Name
}
