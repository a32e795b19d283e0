package pokeapi

type Reference struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ReferenceList struct {
	Results []Reference `json:"results"`
}

type TypeEntry struct {
	Name string `json:"name"`
}

type PokemonType struct {
	Slot int       `json:"slot"`
	Type TypeEntry `json:"type"`
}

// Sprites is optional in the payload; FrontDefault may be null.
type Sprites struct {
	FrontDefault *string `json:"front_default"`
}

type Pokemon struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Sprites *Sprites      `json:"sprites"`
	Types   []PokemonType `json:"types"`
}

func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

func (p *Pokemon) Sprite() *string {
	if p.Sprites == nil {
		return nil
	}
	return p.Sprites.FrontDefault
}
