package main

import (
	"fmt"
	"time"

	"github.com/inkpress-ai/inkpress/internal/content"
)

// demoStore seeds an in-memory content store so the CLI produces useful
// context without a live site connection.
func demoStore() *content.MemoryStore {
	store := content.NewMemoryStore(content.SiteInfo{
		Name:     "Inkpress Demo Blog",
		Tagline:  "Notes on writing, publishing, and growing a blog",
		Locale:   "en_US",
		Timezone: "America/New_York",
		Theme:    "inkpress-classic",
	})

	store.AddUser(content.User{
		ID:           1,
		DisplayName:  "Demo Author",
		Email:        "author@example.com",
		Roles:        []string{"editor"},
		Bio:          "Writes practical guides on blogging workflows and content strategy for small publishers.",
		RegisteredAt: time.Now().AddDate(-1, 0, 0),
	})

	now := time.Now()
	titles := []struct {
		title    string
		category string
		tags     []string
		comments int
	}{
		{"How to Plan a Content Calendar", "strategy", []string{"planning", "workflow"}, 12},
		{"5 Editing Habits That Improve Every Draft", "writing", []string{"editing", "workflow"}, 8},
		{"Why Your Blog Needs an Editorial Voice", "writing", []string{"voice", "branding"}, 15},
		{"Getting Started with Keyword Research", "seo", []string{"keywords", "research"}, 6},
		{"A Simple Framework for Outlining Long Posts", "writing", []string{"outlines", "planning"}, 10},
		{"What Readers Actually Want from How-To Posts", "strategy", []string{"research", "audience"}, 20},
	}
	for i, t := range titles {
		store.AddPost(content.Post{
			ID:           i + 1,
			Title:        t.title,
			Content:      demoBody(t.title),
			Type:         "post",
			Status:       content.StatusPublished,
			AuthorID:     1,
			Categories:   []string{t.category},
			Tags:         t.tags,
			CommentCount: t.comments,
			PublishedAt:  now.AddDate(0, 0, -7*(i+1)),
		})
	}
	return store
}

func demoBody(title string) string {
	return fmt.Sprintf(
		"<h2>%s</h2><p>Every blog benefits from a repeatable process. "+
			"This post walks through the steps we use on our own site, "+
			"with examples you can adapt.</p>"+
			"<ul><li>Start with the reader's question</li>"+
			"<li>Draft fast, edit slow</li>"+
			"<li>Review what performed last month</li></ul>"+
			"<p>It takes practice, but the payoff compounds over time.</p>",
		title)
}
