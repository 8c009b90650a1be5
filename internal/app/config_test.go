package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/catalogview/internal/theme"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://dummyjson.com/products", cfg.CatalogURL)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, "*/10 * * * *", cfg.WarmupCron)

	opts := cfg.TableOptions()
	assert.Equal(t, 5, opts.PageSize)
	assert.False(t, opts.FoldCase)
	assert.True(t, opts.SortRemoval)
	assert.Equal(t, theme.Light, cfg.DefaultTheme())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigSanitisesTableSettings(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	t.Setenv("TABLE_PAGE_SIZE", "0")
	t.Setenv("TABLE_FOLD_CASE", "true")
	t.Setenv("THEME_DEFAULT", "sepia")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TablePageSize)
	assert.True(t, cfg.TableOptions().FoldCase)
	assert.Equal(t, theme.Light, cfg.DefaultTheme())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}
