package dom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/internal/snapshot"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		base string
		idx  dom.Index
		want string
	}{
		{"no index", "CRSE_CODE", dom.NoIndex, "CRSE_CODE"},
		{"zero", "CRSE_CODE", dom.At(0), "CRSE_CODE$0"},
		{"multi digit", "UN_PAM_CRSE_VW_COURSE_TITLE_LONG", dom.At(12), "UN_PAM_CRSE_VW_COURSE_TITLE_LONG$12"},
		{"base with delimiter", "UN_PAM_CRSE_VW$scroll", dom.At(3), "UN_PAM_CRSE_VW$scroll$3"},
		{"zero value is no index", "X", dom.Index{}, "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dom.ID(tt.base, tt.idx))
		})
	}
}

func TestByID(t *testing.T) {
	assert.Equal(t, `[id="UN_PAM_CRSE_VW$scroll$0"]`, dom.ByID(dom.ResultsTable))
	assert.Equal(t, `[id="UN_PAM_CRSE_VW$scroll$0"] > tbody > tr`, dom.RowsOf(dom.ResultsTable))
	assert.Equal(t, `[id="CRSE_CODE$4"]`, dom.ByID(dom.CodeLink(4)))
}

const page = `<html><body>
<span id="TITLE$0">  Intro to Go  </span>
<span id="EMPTY$0"></span>
<span id="RICH$0"> Algorithms &amp; <b>Data</b> </span>
<table id="T$scroll$0"><tbody>
<tr><th>Name</th></tr>
<tr id="trT$0_row1"><td><span id="NAME$0">a</span></td></tr>
<tr id="trT$0_row2"><td><span id="NAME$1">b</span></td></tr>
<tr id="trT$0_row3"><td><span id="NAME$2">c</span></td></tr>
</tbody></table>
</body></html>`

func TestFieldValue(t *testing.T) {
	ctx := context.Background()
	p, err := snapshot.FromString(page)
	require.NoError(t, err)

	v, ok, err := dom.FieldValue(ctx, p, "TITLE", dom.At(0))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Intro to Go", v)

	v, ok, err = dom.FieldValue(ctx, p, "EMPTY", dom.At(0))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok, err = dom.FieldValue(ctx, p, "TITLE", dom.At(1))
	require.NoError(t, err)
	assert.False(t, ok)

	f, err := dom.Field(ctx, p, "MISSING", dom.NoIndex)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestTextField(t *testing.T) {
	ctx := context.Background()
	p, err := snapshot.FromString(page)
	require.NoError(t, err)

	raw, err := dom.Field(ctx, p, "RICH", dom.At(0))
	require.NoError(t, err)
	assert.Equal(t, "Algorithms &amp; <b>Data</b>", *raw)

	text, err := dom.TextField(ctx, p, "RICH", dom.At(0))
	require.NoError(t, err)
	require.NotNil(t, text)
	assert.Equal(t, "Algorithms & Data", *text)

	missing, err := dom.TextField(ctx, p, "RICH", dom.At(1))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRowIndices(t *testing.T) {
	ctx := context.Background()
	p, err := snapshot.FromString(page)
	require.NoError(t, err)

	first, err := dom.RowIndices(ctx, p, "T$scroll$0")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, first)

	second, err := dom.RowIndices(ctx, p, "T$scroll$0")
	require.NoError(t, err)
	assert.Equal(t, first, second, "same page state enumerates the same rows")

	for _, i := range first {
		name, err := dom.Field(ctx, p, "NAME", dom.At(i))
		require.NoError(t, err)
		assert.NotNil(t, name, "row %d addresses a rendered field", i)
	}

	none, err := dom.RowIndices(ctx, p, "ABSENT$scroll$0")
	require.NoError(t, err)
	assert.Empty(t, none)
}
