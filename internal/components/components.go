package components

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/felixbrock/ideaspark/internal/domain"
)

const htmxSrc = "https://unpkg.com/htmx.org@1.9.10"

const dateLayout = "Jan 2, 2006, 03:04 PM"

// out keeps the first write error and skips every write after it.
type out struct {
	w   io.Writer
	err error
}

func (o *out) raw(parts ...string) {
	for _, p := range parts {
		if o.err != nil {
			return
		}
		_, o.err = io.WriteString(o.w, p)
	}
}

func (o *out) text(s string) {
	o.raw(templ.EscapeString(s))
}

func (o *out) child(ctx context.Context, c templ.Component) {
	if o.err != nil {
		return
	}
	o.err = c.Render(ctx, o.w)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Page wraps content in the full document with navigation.
func Page(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>IdeaSpark | `, esc(title), `</title>`,
			`<script src="`, htmxSrc, `"></script>`,
			`<link rel="stylesheet" href="/static/styles.css"></head><body>`,
			`<nav class="nav"><a class="brand" href="/">IdeaSpark</a>`,
			`<a href="/">New idea</a><a href="/dashboard">My Ideas</a></nav>`,
			`<main id="main">`)
		o.child(ctx, content)
		o.raw(`</main></body></html>`)
		return o.err
	})
}

// Input is the idea submission form. The example hint refreshes itself every
// pollEvery while the textarea does not have focus.
func Input(example string, pollEvery time.Duration) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.raw(`<section id="idea-input" class="input">`,
			`<h1>Spark your business idea</h1>`,
			`<p>Describe an idea and get a catchy tagline plus one way to make it stand out.</p>`,
			`<form hx-post="/components/ideas" hx-target="#idea-input" hx-swap="outerHTML" hx-indicator="#analyzing">`,
			`<label for="idea">What's your idea?</label>`,
			`<textarea id="idea" name="idea" rows="4" required placeholder="e.g., `, esc(example), `"></textarea>`)
		o.child(ctx, Placeholder(example, pollEvery))
		o.raw(`<button type="submit">Analyze idea</button>`,
			`<p id="analyzing" class="htmx-indicator">Analyzing your idea...</p>`,
			`</form></section>`)
		return o.err
	})
}

// Placeholder renders the rotating example hint. It polls for its own
// replacement and skips polls while the idea textarea is focused.
func Placeholder(example string, pollEvery time.Duration) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.raw(`<p id="placeholder" class="hint" hx-get="/components/placeholder" hx-swap="outerHTML"`)
		if pollEvery > 0 {
			o.raw(fmt.Sprintf(` hx-trigger="every %dms [document.activeElement.id !== 'idea']"`, pollEvery.Milliseconds()))
		}
		o.raw(`>e.g., `)
		o.text(example)
		o.raw(`</p>`)
		return o.err
	})
}

func followUpLabel(n int) string {
	return fmt.Sprintf("Ask Follow-up Questions (%d)", n)
}

// Result shows the analysis of an idea with its collapsible follow-up thread.
func Result(idea domain.Idea) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := esc(idea.Id)

		o := &out{w: w}
		o.raw(`<section id="idea-result" class="result">`,
			`<h2>Your idea</h2><p class="idea-text">`, esc(idea.Idea), `</p>`,
			`<div class="card"><h3>Tagline</h3><p class="tagline">`, esc(idea.Tagline), `</p></div>`,
			`<div class="card"><h3>Improvement</h3><p class="improvement">`, esc(idea.Improvement), `</p></div>`,
			`<details class="follow-ups"><summary id="follow-up-count-`, id, `">`,
			followUpLabel(len(idea.FollowUpQuestions)), `</summary>`,
			`<div id="thread-`, id, `" class="thread">`)
		for _, q := range idea.FollowUpQuestions {
			o.child(ctx, FollowUp(q))
		}
		o.raw(`</div>`,
			`<form hx-post="/components/ideas/`, id, `/follow-up" hx-target="#thread-`, id, `" hx-swap="beforeend" hx-on::after-request="this.reset()">`,
			`<input type="text" name="question" required placeholder="Ask a question about your idea...">`,
			`<button type="submit">Ask</button></form></details>`,
			`<p class="actions"><a href="/">Submit another idea</a> <a href="/ideas/`, id, `/view">Permalink</a></p>`,
			`</section>`)
		return o.err
	})
}

// FollowUp renders one question and answer exchange.
func FollowUp(q domain.FollowUpQuestion) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.raw(`<div class="exchange" id="follow-up-`, esc(q.Id), `">`,
			`<div class="bubble question">`, esc(q.Question), `</div>`,
			`<div class="bubble answer">`, esc(q.Answer), `</div>`,
			`<time datetime="`, q.CreatedAt.Format(time.RFC3339), `">`, q.CreatedAt.Format(dateLayout), `</time>`,
			`</div>`)
		return o.err
	})
}

// FollowUpAppended is the response to a new question: the exchange plus an
// out-of-band refresh of the thread counter.
func FollowUpAppended(ideaId string, q domain.FollowUpQuestion, count int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.child(ctx, FollowUp(q))
		o.raw(`<summary id="follow-up-count-`, esc(ideaId), `" hx-swap-oob="true">`, followUpLabel(count), `</summary>`)
		return o.err
	})
}

// Dashboard is the shell that loads the idea list after the page is shown.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.raw(`<section id="dashboard" class="dashboard"><h1>My Ideas</h1>`,
			`<div id="idea-list" hx-get="/components/dashboard" hx-trigger="load" hx-swap="outerHTML">`,
			`<div class="spinner" role="status" aria-label="Loading"></div>`,
			`<p>Loading your ideas...</p></div></section>`)
		return o.err
	})
}

// IdeaList renders stored ideas newest first, or an empty state.
func IdeaList(ideas []domain.Idea) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}

		if len(ideas) == 0 {
			o.raw(`<div id="idea-list" class="empty"><p>You haven't submitted any ideas yet.</p>`,
				`<a href="/">Submit your first idea</a></div>`)
			return o.err
		}

		o.raw(`<ul id="idea-list" class="idea-list">`)
		for _, idea := range ideas {
			n := len(idea.FollowUpQuestions)
			noun := "follow-up questions"
			if n == 1 {
				noun = "follow-up question"
			}

			o.raw(`<li class="card"><a href="/ideas/`, esc(idea.Id), `/view"><h3>`, esc(idea.Idea), `</h3></a>`,
				`<p class="tagline">`, esc(idea.Tagline), `</p>`,
				`<p class="improvement">`, esc(idea.Improvement), `</p>`,
				`<p class="meta"><time datetime="`, idea.CreatedAt.Format(time.RFC3339), `">`,
				idea.CreatedAt.Format(dateLayout), `</time> `, fmt.Sprintf("%d %s", n, noun), `</p></li>`)
		}
		o.raw(`</ul>`)
		return o.err
	})
}

func Error(code int, title string, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{w: w}
		o.raw(`<div class="error" role="alert"><h3>`, fmt.Sprintf("%d", code), ` `, esc(title), `</h3>`,
			`<p>`, esc(msg), `</p></div>`)
		return o.err
	})
}
