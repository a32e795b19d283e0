package core

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-barry/pokedex/pokeapi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrEmptySearch = errors.New("pokedex: empty search")

const emptySearchMessage = "Please enter a Pokémon name."

// PokemonClient is the subset of pokeapi.Client used to build pages.
type PokemonClient interface {
	ListReferences(ctx context.Context, limit int) ([]pokeapi.Reference, error)
	GetPokemonByURL(ctx context.Context, url string) (*pokeapi.Pokemon, error)
	GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

type PokemonSummary struct {
	ID     int
	Name   string
	Type   string
	Sprite *string
}

// PageViewModel is handed to the index template. In listing mode only
// PokemonList is set; in lookup mode PokemonList stays empty.
type PageViewModel struct {
	Name         string
	ID           int
	Type         *string
	Sprite       *string
	PokemonList  []PokemonSummary
	SearchFailed bool
	SearchError  string
	Query        string
	CurrentYear  int
	Dev          bool
}

type Home struct {
	client      PokemonClient
	limit       int
	concurrency int
	log         *zap.SugaredLogger
	now         func() time.Time
}

func NewHome(client PokemonClient, limit, concurrency int, log *zap.SugaredLogger) *Home {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Home{
		client:      client,
		limit:       limit,
		concurrency: concurrency,
		log:         log,
		now:         time.Now,
	}
}

// Listing fetches the reference list and then every detail record. Failed
// details are dropped; a failed list call yields an empty listing.
func (h *Home) Listing(ctx context.Context) []PokemonSummary {
	refs, err := h.client.ListReferences(ctx, h.limit)
	if err != nil {
		h.log.Errorw("Error retrieving Pokemon list", "limit", h.limit, "error", err)
		return []PokemonSummary{}
	}

	if h.concurrency > 1 {
		return h.fetchConcurrently(ctx, refs)
	}

	summaries := make([]PokemonSummary, 0, len(refs))
	for _, ref := range refs {
		summary, ok := h.fetchSummary(ctx, ref)
		if !ok {
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func (h *Home) fetchConcurrently(ctx context.Context, refs []pokeapi.Reference) []PokemonSummary {
	slots := make([]*PokemonSummary, len(refs))

	var g errgroup.Group
	g.SetLimit(h.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			if summary, ok := h.fetchSummary(ctx, ref); ok {
				slots[i] = &summary
			}
			return nil
		})
	}
	_ = g.Wait()

	summaries := make([]PokemonSummary, 0, len(refs))
	for _, s := range slots {
		if s != nil {
			summaries = append(summaries, *s)
		}
	}
	return summaries
}

func (h *Home) fetchSummary(ctx context.Context, ref pokeapi.Reference) (PokemonSummary, bool) {
	pokemon, err := h.client.GetPokemonByURL(ctx, ref.URL)
	if err != nil {
		h.log.Warnw("Error retrieving Pokemon details", "name", ref.Name, "url", ref.URL, "error", err)
		return PokemonSummary{}, false
	}
	return PokemonSummary{
		ID:     pokemon.ID,
		Name:   Capitalize(pokemon.Name),
		Type:   strings.Join(pokemon.TypeNames(), " "),
		Sprite: pokemon.Sprite(),
	}, true
}

// Lookup resolves a single Pokémon by name. Any failure sets SearchFailed and
// leaves every data field empty.
func (h *Home) Lookup(ctx context.Context, query string) PageViewModel {
	vm := h.newViewModel()

	name := NormalizeQuery(query)
	vm.Query = name
	if name == "" {
		h.log.Infow("Rejected empty search", "error", ErrEmptySearch)
		vm.SearchFailed = true
		vm.SearchError = emptySearchMessage
		return vm
	}

	pokemon, err := h.client.GetPokemon(ctx, name)
	if err != nil {
		if pokeapi.IsNotFound(err) {
			h.log.Infow("Pokemon not found", "query", name)
		} else {
			h.log.Warnw("Pokemon lookup failed", "query", name, "error", err)
		}
		vm.SearchFailed = true
		return vm
	}
	if pokemon.Name == "" {
		h.log.Warnw("Pokemon lookup returned no record", "query", name)
		vm.SearchFailed = true
		return vm
	}

	vm.ID = pokemon.ID
	vm.Name = Capitalize(pokemon.Name)
	if types := pokemon.TypeNames(); len(types) > 0 {
		joined := strings.Join(types, ", ")
		vm.Type = &joined
	}
	vm.Sprite = pokemon.Sprite()
	return vm
}

// ListingPage builds the GET view model.
func (h *Home) ListingPage(ctx context.Context) PageViewModel {
	vm := h.newViewModel()
	vm.PokemonList = h.Listing(ctx)
	return vm
}

func (h *Home) newViewModel() PageViewModel {
	return PageViewModel{
		PokemonList: []PokemonSummary{},
		CurrentYear: h.now().Year(),
	}
}

func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
