package faq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogMatch(t *testing.T) {
	catalog := NewCatalog("en")

	key, msgs := catalog.Match("")
	require.Equal(t, "en", key)
	require.Equal(t, "No FAQs found.", msgs.Empty)

	key, msgs = catalog.Match("de-AT,de;q=0.9,en;q=0.5")
	require.Equal(t, "de", key)
	require.Equal(t, "Keine FAQs gefunden.", msgs.Empty)

	key, _ = catalog.Match("fr")
	require.Equal(t, "fr", key)

	key, _ = catalog.Match("ja-JP")
	require.Equal(t, "en", key, "unsupported locales fall back")

	key, _ = catalog.Match("not a locale;;")
	require.Equal(t, "en", key)
}

func TestCatalogDefaultLocale(t *testing.T) {
	key, msgs := NewCatalog("fr-CA").Default()
	require.Equal(t, "fr", key)
	require.Equal(t, "Aucune FAQ trouvée.", msgs.Empty)

	key, _ = NewCatalog("xx").Default()
	require.Equal(t, "en", key)
}
