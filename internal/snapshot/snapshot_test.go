package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/coursecrawl/internal/dom"
)

const form = `<html><body>
<select id="UN_PAM_EXTR_WRK_CAMPUS">
  <option value=""></option>
  <option value="N"> Nottingham </option>
  <option value="M">Malaysia</option>
</select>
<div id="win0divUN_PAM_EXTR_WRK_HTMLAREA8">No results <b>found</b></div>
</body></html>`

func TestPageReads(t *testing.T) {
	ctx := context.Background()
	p, err := FromString(form)
	require.NoError(t, err)

	opts, err := p.Options(ctx, dom.CampusSelect)
	require.NoError(t, err)
	assert.Equal(t, []dom.Option{{Value: "", Text: ""}, {Value: "N", Text: "Nottingham"}, {Value: "M", Text: "Malaysia"}}, opts)

	html, ok, err := p.InnerHTML(ctx, dom.EmptyPanel)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "No results <b>found</b>", html)

	_, ok, err = p.InnerHTML(ctx, dom.ResultsPanel)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPageIsStatic(t *testing.T) {
	ctx := context.Background()
	p, err := FromString(form)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Click(ctx, dom.SearchButton), ErrStatic)
	assert.ErrorIs(t, p.Reload(ctx), ErrStatic)
	assert.ErrorIs(t, p.Navigate(ctx, "https://example.com"), ErrStatic)
	assert.ErrorIs(t, p.Select(ctx, dom.CampusSelect, "N"), ErrStatic)

	i, err := p.WaitFirst(ctx, dom.ByID(dom.ResultsPanel), dom.ByID(dom.EmptyPanel))
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	assert.NoError(t, p.WaitFor(ctx, dom.ByID(dom.CampusSelect)))
	assert.ErrorIs(t, p.WaitFor(ctx, dom.ByID(dom.ResultsPanel)), ErrStatic)
	assert.NoError(t, p.Close())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(form), 0644))

	p, err := Open(path)
	require.NoError(t, err)
	assert.True(t, p.Has(dom.ByID(dom.CampusSelect)))

	_, err = Open(filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
