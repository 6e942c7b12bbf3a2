// internal/pokeapi/models.go
package pokeapi

// NamedRef is the PokéAPI {name, url} pair used throughout its payloads.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type TypeSlot struct {
	Slot int      `json:"slot"`
	Type NamedRef `json:"type"`
}

type StatValue struct {
	BaseStat int      `json:"base_stat"`
	Effort   int      `json:"effort"`
	Stat     NamedRef `json:"stat"`
}

type AbilitySlot struct {
	Ability  NamedRef `json:"ability"`
	IsHidden bool     `json:"is_hidden"`
	Slot     int      `json:"slot"`
}

// Pokemon is the entity record fetched per call. Height is in decimeters
// and weight in hectograms, as the provider reports them.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"base_experience"`
	Types          []TypeSlot    `json:"types"`
	Stats          []StatValue   `json:"stats"`
	Abilities      []AbilitySlot `json:"abilities"`
}

func (p *Pokemon) HeightMeters() float64 {
	return float64(p.Height) / 10
}

func (p *Pokemon) WeightKg() float64 {
	return float64(p.Weight) / 10
}

// TypeNames returns the type names in slot order.
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// StatMap returns the six base stats keyed by provider stat name.
func (p *Pokemon) StatMap() map[string]int {
	stats := make(map[string]int, len(p.Stats))
	for _, s := range p.Stats {
		stats[s.Stat.Name] = s.BaseStat
	}
	return stats
}

func (p *Pokemon) TotalStats() int {
	total := 0
	for _, s := range p.Stats {
		total += s.BaseStat
	}
	return total
}

// Summary is the compact entity rendering carried inside workflow state.
type Summary struct {
	Name       string   `json:"name"`
	ID         int      `json:"id"`
	Types      []string `json:"types"`
	TotalStats int      `json:"total_stats"`
}

func (p *Pokemon) Summarize() Summary {
	return Summary{
		Name:       p.Name,
		ID:         p.ID,
		Types:      p.TypeNames(),
		TotalStats: p.TotalStats(),
	}
}

// Page is one page of the paginated /pokemon listing.
type Page struct {
	Count   int        `json:"count"`
	Results []NamedRef `json:"results"`
}

type typeInfo struct {
	Pokemon []typePokemonEntry `json:"pokemon"`
}

type typePokemonEntry struct {
	Pokemon NamedRef `json:"pokemon"`
	Slot    int      `json:"slot"`
}
