// Package catalog provides the item pools the game draws rounds from.
package catalog

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pokermoon/internal/round"
)

// DefaultArtworkURL is the image URL pattern; {name} is replaced by the catalog name.
const DefaultArtworkURL = "https://img.pokemondb.net/artwork/{name}.jpg"

// DisplayName turns a catalog name such as "nidoran-f" into "Nidoran-F".
func DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

// ArtworkURL fills the artwork pattern for one catalog name.
func ArtworkURL(pattern, name string) string {
	if pattern == "" {
		pattern = DefaultArtworkURL
	}
	return strings.ReplaceAll(pattern, "{name}", url.PathEscape(name))
}

// buildItems numbers names from 1 in order.
func buildItems(names []string, artwork string) []round.Item {
	return lo.Map(names, func(name string, i int) round.Item {
		return round.Item{
			ID:          i + 1,
			DisplayName: DisplayName(name),
			Image:       ArtworkURL(artwork, name),
		}
	})
}
