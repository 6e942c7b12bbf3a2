// Package pokeapitest provides an in-process fake PokéAPI provider for
// workflow and client tests.
package pokeapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Server is a fake provider backed by httptest. Fixtures are addressable
// by name and id, and type rosters control the /type listings.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	pokemon  map[string]Fixture
	byID     map[int]Fixture
	rosters  map[string][]string
	failCode int
	requests int
}

// Fixture describes one fake Pokémon record.
type Fixture struct {
	ID             int
	Name           string
	Height         int // decimeters
	Weight         int // hectograms
	BaseExperience int
	Types          []string
	Stats          map[string]int
	HiddenAbility  string
	Abilities      []string
}

// StatNames is the fixed six-stat profile in provider order.
var StatNames = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

func New() *Server {
	s := &Server{
		pokemon: make(map[string]Fixture),
		byID:    make(map[int]Fixture),
		rosters: make(map[string][]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	for _, f := range DefaultFixtures() {
		s.Add(f)
	}
	s.SetTypeRoster("fire", []string{"charmander", "charizard", "growlithe", "arcanine"})
	s.SetTypeRoster("water", []string{"squirtle", "blastoise"})
	s.SetTypeRoster("electric", []string{"pikachu", "raichu"})
	return s
}

func (s *Server) Add(f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pokemon[f.Name] = f
	s.byID[f.ID] = f
}

func (s *Server) SetTypeRoster(typeName string, names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters[typeName] = names
}

// FailWith makes every subsequent request answer with the given HTTP
// status, simulating an unavailable provider. Pass 0 to restore.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCode = status
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests++
	failCode := s.failCode
	s.mu.Unlock()

	if failCode != 0 {
		http.Error(w, "provider down", failCode)
		return
	}

	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case len(parts) == 2 && parts[0] == "pokemon":
		s.servePokemon(w, parts[1])
	case len(parts) == 1 && parts[0] == "pokemon":
		s.serveList(w, r)
	case len(parts) == 2 && parts[0] == "type":
		s.serveType(w, parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) servePokemon(w http.ResponseWriter, token string) {
	s.mu.Lock()
	f, ok := s.pokemon[token]
	if !ok {
		if id, err := strconv.Atoi(token); err == nil {
			f, ok = s.byID[id]
		}
	}
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, nil)
		return
	}
	writeJSON(w, f.toRecord())
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	all := make([]Fixture, 0, len(s.byID))
	for id := 1; id <= 2000 && len(all) < len(s.byID); id++ {
		if f, ok := s.byID[id]; ok {
			all = append(all, f)
		}
	}
	s.mu.Unlock()

	results := []map[string]string{}
	for i := offset; i < len(all) && len(results) < limit; i++ {
		results = append(results, map[string]string{
			"name": all[i].Name,
			"url":  "/pokemon/" + strconv.Itoa(all[i].ID) + "/",
		})
	}
	writeJSON(w, map[string]interface{}{
		"count":   len(all),
		"results": results,
	})
}

func (s *Server) serveType(w http.ResponseWriter, typeName string) {
	s.mu.Lock()
	roster, ok := s.rosters[typeName]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, nil)
		return
	}

	entries := make([]map[string]interface{}, 0, len(roster))
	for i, name := range roster {
		entries = append(entries, map[string]interface{}{
			"slot":    i + 1,
			"pokemon": map[string]string{"name": name, "url": "/pokemon/" + name + "/"},
		})
	}
	writeJSON(w, map[string]interface{}{"pokemon": entries})
}

// toRecord renders the fixture in the provider wire shape.
func (f Fixture) toRecord() map[string]interface{} {
	types := make([]map[string]interface{}, 0, len(f.Types))
	for i, t := range f.Types {
		types = append(types, map[string]interface{}{
			"slot": i + 1,
			"type": map[string]string{"name": t, "url": "/type/" + t + "/"},
		})
	}

	stats := make([]map[string]interface{}, 0, len(StatNames))
	for _, name := range StatNames {
		stats = append(stats, map[string]interface{}{
			"base_stat": f.Stats[name],
			"effort":    0,
			"stat":      map[string]string{"name": name, "url": "/stat/" + name + "/"},
		})
	}

	abilities := make([]map[string]interface{}, 0, len(f.Abilities)+1)
	for i, a := range f.Abilities {
		abilities = append(abilities, map[string]interface{}{
			"ability":   map[string]string{"name": a, "url": "/ability/" + a + "/"},
			"is_hidden": false,
			"slot":      i + 1,
		})
	}
	if f.HiddenAbility != "" {
		abilities = append(abilities, map[string]interface{}{
			"ability":   map[string]string{"name": f.HiddenAbility, "url": "/ability/" + f.HiddenAbility + "/"},
			"is_hidden": true,
			"slot":      len(f.Abilities) + 1,
		})
	}

	return map[string]interface{}{
		"id":              f.ID,
		"name":            f.Name,
		"height":          f.Height,
		"weight":          f.Weight,
		"base_experience": f.BaseExperience,
		"types":           types,
		"stats":           stats,
		"abilities":       abilities,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// DefaultFixtures returns the reference dataset values used across the
// test suites.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{
			ID: 3, Name: "venusaur", Height: 20, Weight: 1000, BaseExperience: 263,
			Types: []string{"grass", "poison"},
			Stats: map[string]int{
				"hp": 80, "attack": 82, "defense": 83,
				"special-attack": 100, "special-defense": 100, "speed": 80,
			},
			Abilities: []string{"overgrow"}, HiddenAbility: "chlorophyll",
		},
		{
			ID: 4, Name: "charmander", Height: 6, Weight: 85, BaseExperience: 62,
			Types: []string{"fire"},
			Stats: map[string]int{
				"hp": 39, "attack": 52, "defense": 43,
				"special-attack": 60, "special-defense": 50, "speed": 65,
			},
			Abilities: []string{"blaze"},
		},
		{
			ID: 6, Name: "charizard", Height: 17, Weight: 905, BaseExperience: 267,
			Types: []string{"fire", "flying"},
			Stats: map[string]int{
				"hp": 78, "attack": 84, "defense": 78,
				"special-attack": 109, "special-defense": 85, "speed": 100,
			},
			Abilities: []string{"blaze"}, HiddenAbility: "solar-power",
		},
		{
			ID: 7, Name: "squirtle", Height: 5, Weight: 90, BaseExperience: 63,
			Types: []string{"water"},
			Stats: map[string]int{
				"hp": 44, "attack": 48, "defense": 65,
				"special-attack": 50, "special-defense": 64, "speed": 43,
			},
			Abilities: []string{"torrent"},
		},
		{
			ID: 9, Name: "blastoise", Height: 16, Weight: 855, BaseExperience: 265,
			Types: []string{"water"},
			Stats: map[string]int{
				"hp": 79, "attack": 83, "defense": 100,
				"special-attack": 85, "special-defense": 105, "speed": 78,
			},
			Abilities: []string{"torrent"}, HiddenAbility: "rain-dish",
		},
		{
			ID: 25, Name: "pikachu", Height: 4, Weight: 60, BaseExperience: 112,
			Types: []string{"electric"},
			Stats: map[string]int{
				"hp": 35, "attack": 55, "defense": 40,
				"special-attack": 50, "special-defense": 50, "speed": 90,
			},
			Abilities: []string{"static"}, HiddenAbility: "lightning-rod",
		},
		{
			ID: 26, Name: "raichu", Height: 8, Weight: 300, BaseExperience: 243,
			Types: []string{"electric"},
			Stats: map[string]int{
				"hp": 60, "attack": 90, "defense": 55,
				"special-attack": 90, "special-defense": 80, "speed": 110,
			},
			Abilities: []string{"static"},
		},
		{
			ID: 58, Name: "growlithe", Height: 7, Weight: 190, BaseExperience: 70,
			Types: []string{"fire"},
			Stats: map[string]int{
				"hp": 55, "attack": 70, "defense": 45,
				"special-attack": 70, "special-defense": 50, "speed": 60,
			},
			Abilities: []string{"intimidate"},
		},
		{
			ID: 59, Name: "arcanine", Height: 19, Weight: 1550, BaseExperience: 194,
			Types: []string{"fire"},
			Stats: map[string]int{
				"hp": 90, "attack": 110, "defense": 80,
				"special-attack": 100, "special-defense": 80, "speed": 95,
			},
			Abilities: []string{"intimidate"}, HiddenAbility: "justified",
		},
	}
}
