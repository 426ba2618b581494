// Package narrator turns the prognosis pipeline output into a readable
// report. The primary path asks Gemini for the narrative; Fallback builds a
// deterministic templated equivalent from the computed metrics and is used
// whenever the model call fails or no API key is configured.
package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/xevansz/Prognos-Advisor-AI/internal/models"
	"github.com/xevansz/Prognos-Advisor-AI/internal/prognosis"
)

// Disclaimer closes every report, generated or templated.
const Disclaimer = "This analysis is for informational purposes only and does not constitute " +
	"financial advice. Consult a qualified financial advisor before making investment decisions."

const systemPrompt = `You are a financial planning assistant. Analyze the provided data and
generate a clear, non-judgmental financial prognosis report. Always emphasize that this is
not financial advice.

Return only a JSON object with these fields:
- summary_bullets: array of 3-8 key points
- cashflow_section: string describing the cash flow situation
- goals_section: string describing goal feasibility
- allocation_section: string describing the recommended allocation
- changes_since_last: string describing changes (or a note that this is the first report)
- disclaimer: string with an appropriate disclaimer
- markdown_body: optional full markdown report`

// ProfileSummary is the slice of the user profile the narrator may mention.
type ProfileSummary struct {
	Age          int                 `json:"age"`
	BaseCurrency string              `json:"base_currency"`
	RiskAppetite models.RiskAppetite `json:"risk_appetite"`
}

// Input is the full pipeline output handed to the narrator.
type Input struct {
	Profile        ProfileSummary             `json:"profile"`
	Risk           prognosis.RiskMetrics      `json:"risk"`
	Goals          []prognosis.GoalEvaluation `json:"goals"`
	Allocation     prognosis.Allocation       `json:"allocation"`
	MacroState     models.MacroState          `json:"macro_state"`
	PreviousReport *models.ReportContent      `json:"previous_report,omitempty"`
}

// Client calls Gemini to write the narrative.
type Client struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewClient creates a new narrator backed by the Gemini API.
func NewClient(ctx context.Context, apiKey, model string, log *logrus.Logger) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{
		client: genaiClient,
		model:  model,
		// One narrative at a time with short bursts; report generation is
		// already throttled per user by the daily quota.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		log:     log,
	}, nil
}

// Generate asks the model for the report narrative.
func (c *Client) Generate(ctx context.Context, input Input) (models.ReportContent, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.ReportContent{}, fmt.Errorf("narrator throttled: %w", err)
	}

	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return models.ReportContent{}, fmt.Errorf("failed to encode narrator input: %w", err)
	}
	prompt := systemPrompt + "\n\nInput data:\n" + string(payload)

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return models.ReportContent{}, fmt.Errorf("failed to generate narrative: %w", err)
	}

	text, err := extractText(result)
	if err != nil {
		return models.ReportContent{}, err
	}

	var content models.ReportContent
	if err := json.Unmarshal([]byte(stripFences(text)), &content); err != nil {
		return models.ReportContent{}, fmt.Errorf("failed to decode narrative: %w", err)
	}
	if len(content.SummaryBullets) == 0 {
		return models.ReportContent{}, fmt.Errorf("narrative missing summary bullets")
	}
	if content.Disclaimer == "" {
		content.Disclaimer = Disclaimer
	}
	return content, nil
}

func extractText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// Fallback assembles the templated report from the computed metrics. Same
// input, same output.
func Fallback(input Input) models.ReportContent {
	risk := input.Risk

	bullets := []string{
		fmt.Sprintf("Overall financial risk is %s (score %d of 100).", strings.ToLower(risk.RiskLabel), risk.RiskScore),
		fmt.Sprintf("Monthly burn rate is %.2f %s with %s of runway.", risk.BurnRate, input.Profile.BaseCurrency, runwayPhrase(risk.RunwayMonths)),
		fmt.Sprintf("%d of %d goals are on track.", countByStatus(input.Goals, models.GoalOnTrack), len(input.Goals)),
		fmt.Sprintf("Recommended equity allocation is %.0f%% given a %s market.", input.Allocation.Recommended[models.AssetEquity]*100, input.MacroState),
	}

	goalsSection := "No dated goals to evaluate yet."
	if len(input.Goals) > 0 {
		var parts []string
		for _, g := range input.Goals {
			parts = append(parts, fmt.Sprintf("%s is %s (%.0f%% simulated success)",
				g.Name, strings.ReplaceAll(string(g.Status), "_", " "), g.SuccessProbability*100))
		}
		goalsSection = strings.Join(parts, "; ") + "."
	}

	changes := "This is your first prognosis report."
	if input.PreviousReport != nil {
		changes = "Figures refreshed since your previous report; review the sections above for the current picture."
	}

	alloc := input.Allocation.Recommended
	allocationSection := fmt.Sprintf(
		"Suggested split: %.0f%% equity, %.0f%% debt, %.0f%% cash, %.0f%% other.",
		alloc[models.AssetEquity]*100, alloc[models.AssetDebt]*100,
		alloc[models.AssetCash]*100, alloc[models.AssetOther]*100)
	if input.Allocation.AggressiveAlternative != nil {
		allocationSection += " An aggressive alternative is included, but your current risk capacity argues for the primary split."
	}

	return models.ReportContent{
		SummaryBullets:    bullets,
		CashflowSection:   fmt.Sprintf("Spending averages %.2f %s per month against a savings ratio of %.0f%%.", risk.BurnRate, input.Profile.BaseCurrency, risk.SavingsRatio*100),
		GoalsSection:      goalsSection,
		AllocationSection: allocationSection,
		ChangesSinceLast:  changes,
		Disclaimer:        Disclaimer,
	}
}

func runwayPhrase(months float64) string {
	if months >= prognosis.RunwayCap {
		return "an effectively unlimited number of months"
	}
	return fmt.Sprintf("%.1f months", months)
}

func countByStatus(goals []prognosis.GoalEvaluation, status models.GoalStatus) int {
	n := 0
	for _, g := range goals {
		if g.Status == status {
			n++
		}
	}
	return n
}
