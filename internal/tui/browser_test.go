package tui

import (
	"strings"
	"testing"
	"time"

	"docsmith/internal/config"
	"docsmith/internal/content"
	"docsmith/internal/logging"
	"docsmith/internal/sidebar"
	"docsmith/internal/site"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
)

func testModel(t *testing.T) *site.Model {
	t.Helper()

	docs, err := content.NewCollection([]*content.Document{
		{
			ID:      "index",
			RelPath: "index.md",
			Meta:    content.Frontmatter{Title: "Welcome Page", Description: "Front page."},
			Body:    []byte("# Welcome\n\nHello there.\n"),
		},
		{
			ID:      "guides/install",
			RelPath: "guides/install.md",
			Meta:    content.Frontmatter{Title: "Install Guide", Description: "Setup."},
			Body:    []byte("# Install\n\nSteps.\n"),
		},
	})
	if err != nil {
		t.Fatalf("failed to build collection: %v", err)
	}

	cfg := config.Default()
	cfg.Title = "Test Site"
	return &site.Model{
		Config: &cfg,
		Docs:   docs,
		Sidebar: &sidebar.Sidebar{Items: []*sidebar.Node{
			{Doc: "index"},
			{Doc: "guides/install"},
		}},
	}
}

func waitForString(t *testing.T, tm *teatest.TestModel, s string) {
	t.Helper()
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), s)
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)
}

func TestBrowserShowsDocsInSidebarOrder(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	browser := NewBrowser(testModel(t), logger)

	if len(browser.docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(browser.docs))
	}
	if browser.docs[0].ID != "index" || browser.docs[1].ID != "guides/install" {
		t.Errorf("docs out of sidebar order: %s, %s", browser.docs[0].ID, browser.docs[1].ID)
	}
}

func TestBrowserRendersAndQuits(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	browser := NewBrowser(testModel(t), logger)

	tm := teatest.NewTestModel(t, browser, teatest.WithInitialTermSize(120, 40))

	// Both titles appear in the same frame; tm.Output() is a consuming
	// stream, so they must be checked in one WaitFor pass.
	teatest.WaitFor(
		t,
		tm.Output(),
		func(b []byte) bool {
			return strings.Contains(string(b), "Welcome Page") &&
				strings.Contains(string(b), "Install Guide")
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*3),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second*3))
}

func TestBrowserNavigationUpdatesStatus(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	browser := NewBrowser(testModel(t), logger)

	tm := teatest.NewTestModel(t, browser, teatest.WithInitialTermSize(120, 40))

	waitForString(t, tm, "/index/")

	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	waitForString(t, tm, "/guides/install/")

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second*3))
}

func TestDocItemMethods(t *testing.T) {
	item := docItem{doc: &content.Document{
		ID:   "guides/install",
		Meta: content.Frontmatter{Title: "Install Guide"},
	}}
	if item.Title() != "Install Guide" {
		t.Errorf("Title() = %q", item.Title())
	}
	if item.Description() != "guides/install" {
		t.Errorf("Description() = %q", item.Description())
	}
	if !strings.Contains(item.FilterValue(), "guides/install") {
		t.Errorf("FilterValue() = %q", item.FilterValue())
	}
}

func TestDetectGlamourStyleEnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "notty")
	if got := detectGlamourStyle(50 * time.Millisecond); got != "notty" {
		t.Errorf("detectGlamourStyle = %q, want env override", got)
	}
}
