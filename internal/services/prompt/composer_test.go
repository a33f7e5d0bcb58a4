package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/dataforte10/saham/internal/models"
)

func TestComposeBaseAnalysisFillsPlaceholders(t *testing.T) {
	c := NewComposer("Indonesian", 100)
	p := c.ComposeBaseAnalysis("TECH", "FUND", "RECS")

	for _, want := range []string{"Indonesian", "TECH", "FUND", "RECS"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(p, "{{") {
		t.Errorf("unresolved placeholder in prompt: %s", p)
	}
}

func TestComposeBaseAnalysisEmptyInputBecomesToken(t *testing.T) {
	c := NewComposer("Indonesian", 100)
	p := c.ComposeBaseAnalysis("TECH", "FUND", "")

	if !strings.Contains(p, NotAvailableToken) {
		t.Error("empty recommendations should render as the not-available token")
	}
}

func TestComposeFollowUpWithQuestion(t *testing.T) {
	c := NewComposer("Indonesian", 100)
	p := c.ComposeFollowUp("the analysis", "is it overvalued?")

	if !strings.Contains(p, "the analysis") || !strings.Contains(p, "is it overvalued?") {
		t.Error("follow-up prompt missing analysis or question")
	}
	if strings.Contains(p, followUpEmptyInstruction) {
		t.Error("empty-question instruction must not appear when a question was asked")
	}
	if !strings.Contains(p, "I do not have enough data.") {
		t.Error("follow-up prompt missing insufficient-data instruction")
	}
}

func TestComposeFollowUpWithoutQuestion(t *testing.T) {
	c := NewComposer("Indonesian", 100)
	p := c.ComposeFollowUp("the analysis", "")

	if !strings.Contains(p, followUpEmptyInstruction) {
		t.Error("empty question should add the no-question instruction")
	}
	if strings.Contains(p, "{{") {
		t.Errorf("unresolved placeholder in prompt: %s", p)
	}
}

func TestComposeChatTurnWordLimit(t *testing.T) {
	c := NewComposer("Indonesian", 80)
	p := c.ComposeChatTurn("context text", "BBCA.JK", "how is the trend?")

	if !strings.Contains(p, "80 words") {
		t.Error("chat prompt should carry the configured word limit")
	}
	if !strings.Contains(p, "BBCA.JK") || !strings.Contains(p, "how is the trend?") {
		t.Error("chat prompt missing symbol or message")
	}
}

func TestComposeNewsSummaryPreservesLinks(t *testing.T) {
	c := NewComposer("Indonesian", 100)
	items := []models.NewsItem{
		{Title: "Bank posts record profit", URL: "https://example.com/a", Source: "Example", PublishedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Rate cut expected", URL: "https://example.com/b", Source: "Example"},
	}
	p := c.ComposeNewsSummary("BBCA.JK", items)

	if !strings.Contains(p, "https://example.com/a") || !strings.Contains(p, "https://example.com/b") {
		t.Error("news prompt must carry every source link")
	}
	if !strings.Contains(p, NewsFallbackSentence) {
		t.Error("news prompt must state the exact fallback sentence")
	}
}

func TestComposerDefaults(t *testing.T) {
	c := NewComposer("", 0)
	p := c.ComposeChatTurn("ctx", "BBCA.JK", "hi")
	if !strings.Contains(p, "Indonesian") {
		t.Error("default language should be Indonesian")
	}
	if !strings.Contains(p, "100 words") {
		t.Error("default word limit should be 100")
	}
}
