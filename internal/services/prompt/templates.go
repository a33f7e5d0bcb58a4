// Package prompt builds the natural-language prompts consumed by the LLM.
package prompt

// TemplateVersion identifies the prompt asset revision. Bump when template
// wording changes so cached analyses can be told apart from new ones.
const TemplateVersion = "v1"

// NotAvailableToken is substituted for any missing placeholder input so a
// template never renders with an empty interpolation.
const NotAvailableToken = "not available"

// baseAnalysisTemplate is the first-stage analysis prompt. The enumerated
// sections mirror the dashboard's analysis panel.
const baseAnalysisTemplate = `You are acting as a stock analyst tasked with analyzing the stock data presented below.
Write your analysis in simple {{language}}. Always use the currency that matches the stock's home market; the currency context is included in the fundamental data.

Analyze the following stock data using technical and fundamental analysis:

Technical data (open and close prices):
{{technical_data}}

Fundamental data:
{{fundamental_data}}

Analyst recommendations:
{{recommendations_data}}

Provide insight on each of the following, as an informative narrative that cites the actual data and figures:
1. The overall trend
2. Key technical indicators
3. Important fundamental metrics
4. Potential strengths and weaknesses
5. Notable patterns or anomalies
6. Buy and sell level recommendations, for example:
Buy recommendation: this stock can be bought if the price falls to the support level around 9,500, with a target price around 10,500.
Sell recommendation: this stock can be sold if the price reaches the resistance level around 10,500, with a target price around 9,500.
7. A hold recommendation, presented as a table.`

// followUpTemplate answers the user's question about the base analysis.
const followUpTemplate = `As a stock analyst, based on the following analysis:

{{analysis}}

Answer this question from the user: {{question}}

Write the answer in {{language}}. The answer must be informative and not rambling. If you do not have the answer, write "I do not have enough data." {{empty_instruction}}`

// followUpEmptyInstruction is appended when the user asked nothing, so the
// model does not invent a question to answer.
const followUpEmptyInstruction = `The user did not ask a question; do not ask one back, simply state that no question was asked.`

// chatTurnTemplate answers one standalone chat message about the symbol.
const chatTurnTemplate = `You are a stock analyst assistant for {{symbol}}. Context:

{{context}}

User message: {{message}}

Answer directly in {{language}}, in at most {{word_limit}} words. Do not be discursive; give the answer itself, not a discussion of the answer.`

// newsSummaryTemplate summarizes news strictly grouped by sentiment.
const newsSummaryTemplate = `You are a financial news analyst. Summarize the following news for the stock {{symbol}}, writing in {{language}}.

News items:
{{news_items}}

Rules:
- Group the summary strictly by sentiment: positive first, then neutral, then negative.
- Write in narrative form only; do not use bullet points.
- Preserve the source link of every item you mention, inline in the narrative.
- If none of the items relate to {{symbol}}, write exactly this sentence and nothing else: "{{fallback}}"`

// NewsFallbackSentence is the mandated output when no news matches the symbol.
const NewsFallbackSentence = "No relevant news was found for this stock."
