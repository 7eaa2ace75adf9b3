package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeLocales(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	en := "shop.title: iPhone Export\ncart.empty: Your cart is empty\n"
	fr := "shop.title: iPhone Export\ncart.empty: Votre panier est vide\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte(en), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.yaml"), []byte(fr), 0o644))
	return dir
}

func TestLoadRequiresFallbackLocale(t *testing.T) {
	t.Parallel()

	_, err := Load(t.TempDir(), "en", []string{"en", "fr"})
	require.Error(t, err)
}

func TestTFallsBackThroughLocales(t *testing.T) {
	t.Parallel()

	b, err := Load(writeLocales(t), "en", []string{"en", "fr"})
	require.NoError(t, err)

	require.Equal(t, "Votre panier est vide", b.T("fr", "cart.empty"))
	require.Equal(t, "Your cart is empty", b.T("de", "cart.empty"))
	require.Equal(t, "missing.key", b.T("fr", "missing.key"))
}

func TestResolveHonorsQualityOrder(t *testing.T) {
	t.Parallel()

	b, err := Load(writeLocales(t), "en", []string{"en", "fr"})
	require.NoError(t, err)

	require.Equal(t, "fr", b.Resolve("fr-CA,fr;q=0.9,en;q=0.8"))
	require.Equal(t, "fr", b.Resolve("de;q=0.9,fr;q=0.8"))
	require.Equal(t, "en", b.Resolve("de,ja;q=0.9"))
	require.Equal(t, "en", b.Resolve(""))
}
