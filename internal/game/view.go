package game

import "github.com/shopspring/decimal"

// View is the standings snapshot one player sees when asked for a bid.
type View struct {
	Player    string                     `json:"player"`
	Opponents []string                   `json:"opponents"`
	Coins     map[string]decimal.Decimal `json:"coins"`
	Trophies  map[string]int             `json:"trophies"`
}

// OwnCoins returns the viewing player's balance.
func (v View) OwnCoins() decimal.Decimal {
	return v.Coins[v.Player]
}

// Project builds the View for name from a roster. Opponents keep roster order,
// so the same roster always yields the same slot assignment.
func Project(players []Player, name string) (View, error) {
	found := false
	v := View{
		Player:    name,
		Opponents: Opponents(players, name),
		Coins:     make(map[string]decimal.Decimal, len(players)),
		Trophies:  make(map[string]int, len(players)),
	}
	for _, p := range players {
		if p.Name == name {
			found = true
		}
		v.Coins[p.Name] = p.Coins
		v.Trophies[p.Name] = p.Trophies
	}
	if !found {
		return View{}, ErrUnknownPlayer
	}
	return v, nil
}

// ProjectAll returns one View per player in roster order, all taken from the
// same snapshot.
func ProjectAll(players []Player) []View {
	views := make([]View, 0, len(players))
	for _, p := range players {
		v, _ := Project(players, p.Name)
		views = append(views, v)
	}
	return views
}
