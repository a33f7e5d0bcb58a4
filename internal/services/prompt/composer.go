package prompt

import (
	"strconv"
	"strings"

	"github.com/dataforte10/saham/internal/models"
)

// Composer renders the four prompt templates. All compose operations are
// deterministic pure functions of their inputs plus the fixed configuration
// captured at construction.
type Composer struct {
	language  string
	wordLimit int
}

// NewComposer creates a composer for the deployment's configured target
// language and chat word limit.
func NewComposer(language string, chatWordLimit int) *Composer {
	if language == "" {
		language = "Indonesian"
	}
	if chatWordLimit <= 0 {
		chatWordLimit = 100
	}
	return &Composer{language: language, wordLimit: chatWordLimit}
}

// render substitutes named placeholders. Empty values never reach the
// template: they render as the explicit not-available token instead.
func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			value = NotAvailableToken
		}
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// ComposeBaseAnalysis builds the first-stage analysis prompt from the
// flattened technical, fundamental, and recommendation texts.
func (c *Composer) ComposeBaseAnalysis(technicalText, fundamentalText, recommendationsText string) string {
	return render(baseAnalysisTemplate, map[string]string{
		"language":             c.language,
		"technical_data":       technicalText,
		"fundamental_data":     fundamentalText,
		"recommendations_data": recommendationsText,
	})
}

// ComposeFollowUp builds the follow-up prompt against the prior analysis.
// An empty question still composes a valid prompt; the template then
// instructs the model not to ask a question back.
func (c *Composer) ComposeFollowUp(priorAnalysis, question string) string {
	emptyInstruction := ""
	if strings.TrimSpace(question) == "" {
		emptyInstruction = followUpEmptyInstruction
	}
	values := map[string]string{
		"language": c.language,
		"analysis": priorAnalysis,
		"question": question,
	}
	prompt := render(followUpTemplate, values)
	// The instruction slot is the one placeholder allowed to vanish
	return strings.TrimSpace(strings.Replace(prompt, "{{empty_instruction}}", emptyInstruction, 1))
}

// ComposeChatTurn builds a bounded-length chat prompt for one user message.
func (c *Composer) ComposeChatTurn(connectorContext, symbol, userMessage string) string {
	return render(chatTurnTemplate, map[string]string{
		"language":   c.language,
		"context":    connectorContext,
		"symbol":     symbol,
		"message":    userMessage,
		"word_limit": strconv.Itoa(c.wordLimit),
	})
}

// ComposeNewsSummary builds the sentiment-grouped news summary prompt.
func (c *Composer) ComposeNewsSummary(symbol string, items []models.NewsItem) string {
	return render(newsSummaryTemplate, map[string]string{
		"language":   c.language,
		"symbol":     symbol,
		"news_items": FormatNewsItems(items),
		"fallback":   NewsFallbackSentence,
	})
}
