package faq

import (
	"strings"

	"golang.org/x/text/language"
)

// Messages are the user-visible strings of one locale.
type Messages struct {
	Empty         string
	Loading       string
	Failure       string
	AllCategories string
	FilterLabel   string
}

var builtinLocales = []language.Tag{language.English, language.German, language.French}

var builtinMessages = map[language.Tag]Messages{
	language.English: {
		Empty:         "No FAQs found.",
		Loading:       "Loading FAQs...",
		Failure:       "Could not load FAQs. Please try again.",
		AllCategories: "All categories",
		FilterLabel:   "Filter by category",
	},
	language.German: {
		Empty:         "Keine FAQs gefunden.",
		Loading:       "FAQs werden geladen...",
		Failure:       "FAQs konnten nicht geladen werden. Bitte erneut versuchen.",
		AllCategories: "Alle Kategorien",
		FilterLabel:   "Nach Kategorie filtern",
	},
	language.French: {
		Empty:         "Aucune FAQ trouvée.",
		Loading:       "Chargement des FAQ...",
		Failure:       "Impossible de charger les FAQ. Veuillez réessayer.",
		AllCategories: "Toutes les catégories",
		FilterLabel:   "Filtrer par catégorie",
	},
}

// Catalog negotiates a request locale against the built-in translations.
type Catalog struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewCatalog builds a catalog whose fallback is defaultLocale when supported,
// English otherwise.
func NewCatalog(defaultLocale string) *Catalog {
	tags := make([]language.Tag, 0, len(builtinLocales))
	fallback := language.English
	if parsed, err := language.Parse(strings.TrimSpace(defaultLocale)); err == nil {
		for _, t := range builtinLocales {
			if base, _ := parsed.Base(); t.String() == base.String() {
				fallback = t
				break
			}
		}
	}
	tags = append(tags, fallback)
	for _, t := range builtinLocales {
		if t != fallback {
			tags = append(tags, t)
		}
	}
	return &Catalog{tags: tags, matcher: language.NewMatcher(tags)}
}

// Match resolves locale (a tag or an Accept-Language value) to the catalog key
// used in cache keys and the messages for it.
func (c *Catalog) Match(locale string) (string, Messages) {
	tag := c.tags[0]
	if wanted, _, err := language.ParseAcceptLanguage(locale); err == nil && len(wanted) > 0 {
		if _, idx, conf := c.matcher.Match(wanted...); conf != language.No {
			tag = c.tags[idx]
		}
	}
	return tag.String(), builtinMessages[tag]
}

// Default returns the fallback locale key and its messages.
func (c *Catalog) Default() (string, Messages) {
	return c.tags[0].String(), builtinMessages[c.tags[0]]
}
