package navigator

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/coursecrawl/internal/dom"
	"github.com/go-scripts/coursecrawl/internal/testsite"
	"github.com/go-scripts/coursecrawl/pkg/common"
)

const (
	portalURL    = "https://portal.example.ac.uk/"
	catalogueURL = "https://catalogue.example.ac.uk/search"
)

func newSite() *testsite.Site {
	s := testsite.New(
		testsite.NewGroup("SCI", "Science",
			testsite.NewCourse("SCI1001", "Physics"),
			testsite.NewCourse("SCI1002", "Chemistry"),
		),
		testsite.NewGroup("ART", "Arts"),
	)
	s.Campuses = append(s.Campuses, dom.Option{Value: "M", Text: "Malaysia"})
	s.Years = []dom.Option{
		{Value: "24", Text: "2024/25 Academic Year"},
		{Value: "25", Text: "2025/26 Academic Year"},
	}
	return s
}

func newNav(site dom.Page, p Prompter, pins common.TraversalConfig) *Navigator {
	return New(site, p, pins, []string{portalURL, "", catalogueURL}, log.New(io.Discard))
}

func TestOpenVisitsURLsInOrder(t *testing.T) {
	site := newSite()
	n := newNav(site, &testsite.Prompter{}, common.TraversalConfig{})

	require.NoError(t, n.Open(context.Background()))
	assert.Equal(t, []string{portalURL, catalogueURL}, site.Navigations)
	assert.Equal(t, Home, n.State())
}

func TestEnterSearchPromptsOnce(t *testing.T) {
	ctx := context.Background()
	site := newSite()
	p := &testsite.Prompter{Answers: map[string]string{"Which campus?": "M", "Which year?": "25"}}
	n := newNav(site, p, common.TraversalConfig{})

	require.NoError(t, n.Open(ctx))
	require.NoError(t, n.EnterSearch(ctx))
	assert.Equal(t, SearchCriteriaLoaded, n.State())

	want := common.TraversalConfig{
		Campus: common.Axis{Code: "M", Label: "Malaysia"},
		Year:   common.Axis{Code: "25", Label: "2025/26"},
	}
	assert.Equal(t, want, n.Config())
	assert.True(t, n.Config().Resolved())

	for i := 0; i < 3; i++ {
		require.NoError(t, n.Reset(ctx))
	}
	assert.Equal(t, []string{"Which campus?", "Which year?"}, p.Calls)
	assert.Equal(t, want, n.Config())
	assert.Equal(t, 3, site.Reloads)
}

func TestEnterSearchPinned(t *testing.T) {
	ctx := context.Background()
	p := &testsite.Prompter{}
	n := newNav(newSite(), p, common.TraversalConfig{
		Campus: common.Axis{Code: "N"},
		Year:   common.Axis{Code: "24"},
	})

	require.NoError(t, n.Open(ctx))
	require.NoError(t, n.EnterSearch(ctx))
	assert.Empty(t, p.Calls)
	assert.Equal(t, common.Axis{Code: "N", Label: "Nottingham"}, n.Config().Campus)
	assert.Equal(t, common.Axis{Code: "24", Label: "2024/25"}, n.Config().Year)
}

func TestEnterSearchPartialPin(t *testing.T) {
	ctx := context.Background()
	p := &testsite.Prompter{}
	n := newNav(newSite(), p, common.TraversalConfig{Campus: common.Axis{Code: "N"}})

	require.NoError(t, n.Open(ctx))
	require.NoError(t, n.EnterSearch(ctx))
	assert.Equal(t, []string{"Which year?"}, p.Calls)
	assert.Equal(t, "24", n.Config().Year.Code)
}

func TestEnterSearchUnknownPin(t *testing.T) {
	ctx := context.Background()
	n := newNav(newSite(), &testsite.Prompter{}, common.TraversalConfig{Campus: common.Axis{Code: "X"}})

	require.NoError(t, n.Open(ctx))
	err := n.EnterSearch(ctx)
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.False(t, n.Config().Resolved())
}

func TestEnterSearchPromptError(t *testing.T) {
	ctx := context.Background()
	aborted := errors.New("aborted")
	n := newNav(newSite(), &testsite.Prompter{Err: aborted}, common.TraversalConfig{})

	require.NoError(t, n.Open(ctx))
	assert.ErrorIs(t, n.EnterSearch(ctx), aborted)
}

func TestGroupsDropsPlaceholder(t *testing.T) {
	ctx := context.Background()
	n := newNav(newSite(), &testsite.Prompter{}, common.TraversalConfig{})
	require.NoError(t, n.Open(ctx))

	_, err := n.Groups(ctx)
	assert.ErrorIs(t, err, ErrState)

	require.NoError(t, n.EnterSearch(ctx))
	groups, err := n.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Group{{Code: "SCI", Name: "Science"}, {Code: "ART", Name: "Arts"}}, groups)
}

func TestSearchOutcomes(t *testing.T) {
	ctx := context.Background()
	site := newSite()
	n := newNav(site, &testsite.Prompter{}, common.TraversalConfig{})
	require.NoError(t, n.Open(ctx))
	require.NoError(t, n.EnterSearch(ctx))

	out, err := n.Search(ctx, common.Group{Code: "SCI", Name: "Science"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeResults, out)
	assert.Equal(t, Results, n.State())

	_, err = n.Search(ctx, common.Group{Code: "ART"})
	assert.ErrorIs(t, err, ErrState, "search needs a primed form")

	out, err = n.Resume(ctx, common.Group{Code: "ART", Name: "Arts"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeEmpty, out)
	assert.Equal(t, Empty, n.State())
	assert.Equal(t, []string{"SCI", "ART"}, site.Searches)
}

func TestOpenDetail(t *testing.T) {
	ctx := context.Background()
	site := newSite()
	n := newNav(site, &testsite.Prompter{}, common.TraversalConfig{})
	require.NoError(t, n.Open(ctx))
	require.NoError(t, n.EnterSearch(ctx))

	assert.ErrorIs(t, n.OpenDetail(ctx, 0), ErrState)

	sci := common.Group{Code: "SCI", Name: "Science"}
	_, err := n.Search(ctx, sci)
	require.NoError(t, err)
	require.NoError(t, n.OpenDetail(ctx, 1))
	assert.Equal(t, DetailOpen, n.State())
	assert.Equal(t, []string{"SCI1002"}, site.Opened)

	assert.ErrorIs(t, n.OpenDetail(ctx, 0), ErrState, "detail views are not reachable from each other")

	out, err := n.Resume(ctx, sci)
	require.NoError(t, err)
	assert.Equal(t, OutcomeResults, out)
	require.NoError(t, n.OpenDetail(ctx, 0))
	assert.Equal(t, []string{"SCI1002", "SCI1001"}, site.Opened)
}

func TestWaitError(t *testing.T) {
	ctx := context.Background()
	site := newSite()
	n := newNav(site, &testsite.Prompter{}, common.TraversalConfig{})
	require.NoError(t, n.Open(ctx))
	require.NoError(t, n.EnterSearch(ctx))
	_, err := n.Search(ctx, common.Group{Code: "SCI"})
	require.NoError(t, err)

	// Row 5 has no link, so the click fails before any wait.
	require.Error(t, n.OpenDetail(ctx, 5))

	// A page that never renders the entry control times out on the first wait.
	n = newNav(&stuckPage{Site: site}, &testsite.Prompter{}, common.TraversalConfig{})
	err = n.EnterSearch(ctx)
	var we *WaitError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "home", we.Step)
	assert.Equal(t, dom.ByID(dom.EntryButton), we.Selector)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// stuckPage never finishes loading.
type stuckPage struct {
	*testsite.Site
}

func (p *stuckPage) WaitFor(context.Context, string) error {
	return testsite.ErrTimeout
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "search-criteria", SearchCriteriaLoaded.String())
	assert.Equal(t, "detail", DetailOpen.String())
	assert.Equal(t, "empty", OutcomeEmpty.String())
	assert.Equal(t, "State(9)", State(9).String())
}
