package catalog

import (
	"context"
	"slices"

	"pokermoon/internal/round"
)

// DefaultNames mirrors the remote catalog from offset 20, enough for level 19.
var DefaultNames = []string{
	"spearow", "fearow", "ekans", "arbok", "pikachu", "raichu",
	"sandshrew", "sandslash", "nidoran-f", "nidorina", "nidoqueen", "nidoran-m",
	"nidorino", "nidoking", "clefairy", "clefable", "vulpix", "ninetales",
	"jigglypuff", "wigglytuff", "zubat", "golbat", "oddish", "gloom",
	"vileplume", "paras", "parasect", "venonat", "venomoth", "diglett",
	"dugtrio", "meowth", "persian", "psyduck", "golduck", "mankey",
	"primeape", "growlithe", "arcanine", "poliwag", "poliwhirl", "poliwrath",
	"abra", "kadabra", "alakazam", "machop", "machoke", "machamp",
	"bellsprout", "weepinbell", "victreebel", "tentacool", "tentacruel", "geodude",
	"graveler", "golem", "ponyta", "rapidash", "slowpoke", "slowbro",
}

// Static serves items from a fixed list of names. Asking for more than the list holds
// returns the whole list.
type Static struct {
	names   []string
	artwork string
}

// NewStatic returns a provider over names. An empty list falls back to DefaultNames.
func NewStatic(names []string, artwork string) *Static {
	if len(names) == 0 {
		names = DefaultNames
	}
	return &Static{names: slices.Clone(names), artwork: artwork}
}

func (s *Static) FetchItems(ctx context.Context, count int) ([]round.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := min(max(count, 0), len(s.names))
	return buildItems(s.names[:n], s.artwork), nil
}
