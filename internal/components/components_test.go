package components

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/felixbrock/ideaspark/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var createdAt = time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)

func TestResult(t *testing.T) {
	idea := domain.Idea{
		Id:          "abc",
		Idea:        "open a cat café",
		Tagline:     "Purrfect coffee",
		Improvement: "Add adoption nights",
		CreatedAt:   createdAt,
		FollowUpQuestions: []domain.FollowUpQuestion{
			{Id: "q1", Question: "How do I market this?", Answer: "Instagram.", CreatedAt: createdAt},
			{Id: "q2", Question: "Pricing?", Answer: "Cover charge.", CreatedAt: createdAt},
		},
	}

	html := render(t, Result(idea))

	assert.Contains(t, html, "Purrfect coffee")
	assert.Contains(t, html, "Add adoption nights")
	assert.Contains(t, html, "Ask Follow-up Questions (2)")
	assert.Contains(t, html, `hx-post="/components/ideas/abc/follow-up"`)
	assert.Less(t, bytes.Index([]byte(html), []byte("How do I market this?")), bytes.Index([]byte(html), []byte("Pricing?")))
}

func TestResultEscapesUserText(t *testing.T) {
	html := render(t, Result(domain.Idea{Id: "x", Idea: `<script>alert("x")</script>`}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestPlaceholder(t *testing.T) {
	testCases := []struct {
		name      string
		pollEvery time.Duration
		trigger   bool
	}{
		{name: "Polling", pollEvery: 6 * time.Second, trigger: true},
		{name: "Static", pollEvery: 0, trigger: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			html := render(t, Placeholder("build a robot gardener", tc.pollEvery))

			assert.Contains(t, html, "e.g., build a robot gardener")
			if tc.trigger {
				assert.Contains(t, html, `hx-trigger="every 6000ms [document.activeElement.id !== 'idea']"`)
			} else {
				assert.NotContains(t, html, "hx-trigger")
			}
		})
	}
}

func TestInputInPage(t *testing.T) {
	html := render(t, Page("Home", Input("open a cat café", time.Second)))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, htmxSrc)
	assert.Contains(t, html, `placeholder="e.g., open a cat café"`)
	assert.Contains(t, html, `hx-post="/components/ideas"`)
}

func TestIdeaList(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		html := render(t, IdeaList(nil))

		assert.Contains(t, html, "You haven't submitted any ideas yet.")
		assert.NotContains(t, html, "<ul")
	})

	t.Run("Ideas", func(t *testing.T) {
		ideas := []domain.Idea{
			{Id: "b", Idea: "newer", CreatedAt: createdAt, FollowUpQuestions: []domain.FollowUpQuestion{{Id: "q"}}},
			{Id: "a", Idea: "older", CreatedAt: createdAt.Add(-time.Hour)},
		}

		html := render(t, IdeaList(ideas))

		assert.Contains(t, html, "Mar 5, 2024, 02:07 PM")
		assert.Contains(t, html, "1 follow-up question<")
		assert.Contains(t, html, "0 follow-up questions")
		assert.Contains(t, html, `href="/ideas/b/view"`)
		assert.Less(t, bytes.Index([]byte(html), []byte("newer")), bytes.Index([]byte(html), []byte("older")))
	})
}

func TestDashboardLoadsList(t *testing.T) {
	html := render(t, Dashboard())

	assert.Contains(t, html, `hx-get="/components/dashboard"`)
	assert.Contains(t, html, `hx-trigger="load"`)
	assert.Contains(t, html, "Loading your ideas...")
}

func TestFollowUpAppended(t *testing.T) {
	q := domain.FollowUpQuestion{Id: "q3", Question: "Where?", Answer: "Downtown.", CreatedAt: createdAt}

	html := render(t, FollowUpAppended("abc", q, 3))

	assert.Contains(t, html, "Downtown.")
	assert.Contains(t, html, `id="follow-up-count-abc" hx-swap-oob="true">Ask Follow-up Questions (3)`)
}

func TestError(t *testing.T) {
	html := render(t, Error(404, "Not found", "Idea not found"))

	assert.Contains(t, html, "404 Not found")
	assert.Contains(t, html, "Idea not found")
}
