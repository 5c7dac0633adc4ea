package scrape

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"leaders-scraper/internal/store"

	"github.com/stretchr/testify/require"
)

func TestExcerptsOrder(t *testing.T) {
	e := NewExcerpts()
	e.Set("Zoe Z", "z")
	e.Set("Anne A", "a")
	e.Set("Zoe Z", "z2")

	require.Equal(t, []string{"Zoe Z", "Anne A"}, e.Keys())
	require.Equal(t, map[string]string{"Zoe Z": "z2", "Anne A": "a"}, e.Map())

	out, err := json.Marshal(e)
	require.NoError(t, err)
	require.Equal(t, `{"Zoe Z":"z2","Anne A":"a"}`, string(out))
}

func TestExcerptsEmpty(t *testing.T) {
	out, err := json.Marshal(NewExcerpts())
	require.NoError(t, err)
	require.Equal(t, `{}`, string(out))
}

func TestExcerptsWrittenLiterally(t *testing.T) {
	e := NewExcerpts()
	e.Set("Emmanuel Macron", "homme d'État <français>\u2028suite")

	path := filepath.Join(t.TempDir(), "excerpts.json")
	require.NoError(t, store.WriteJSON(path, e))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"Emmanuel Macron\": \"homme d'État <français>\u2028suite\"\n}\n", string(contents))
}
