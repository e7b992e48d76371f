package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/storage"
)

const analyzeSystemPrompt = `You are a soccer opponent analyst preparing a coaching staff for a match.
You are given structured data computed from event and 360 freeze-frame data of
one tournament, and a question from the staff.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: what should the team expect and how can it exploit it.
- Mention small samples (fewer than 8 events or 3 matches) when you rely on them.

Metrics glossary:
- xG: expected goals of shots. xg_conceded is the opponent's xG in the same match.
- Pass accuracy: completed passes / passes, in percent. null when a team made no pass.
- Possession: share of on-ball time, 0 to 1, pressure events excluded.
- Rating: team average vs tournament average with a band of 0.25 standard deviations;
  "above" is always the favourable side (fewer goals conceded counts as above).
- Center backs after opponent goal kick: mean x position (0 = own goal line,
  120 = opponent goal line) of center-back actions within the tolerance window
  after the opponent restarted with a goal kick. Higher means a higher line.
- Assisted xG: xG of shots that followed a player's pass.
- Passed opponents: opponents between the passer and the receiver along the pitch
  length, taken from the freeze frame at the moment of the pass.`

var (
	analyzeModel    string
	analyzeAPIKey   string
	analyzeRun      string
	analyzeMarkdown bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeTeamCmd = &cobra.Command{
	Use:   "team <team> <question>",
	Short: "Analyze one team's profile, matches and players with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeTeam,
}

var analyzeTournamentCmd = &cobra.Command{
	Use:   "tournament <question>",
	Short: "Analyze the team summaries of a run with AI",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeTournament,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeRun, "run", "", "run-key prefix (default: newest run)")
	analyzeCmd.PersistentFlags().BoolVar(&analyzeMarkdown, "markdown", false, "render the answer as terminal markdown once complete")

	analyzeCmd.AddCommand(analyzeTeamCmd)
	analyzeCmd.AddCommand(analyzeTournamentCmd)
}

func runAnalyzeTeam(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, res, err := loadRun(db, analyzeRun)
	if err != nil {
		return err
	}
	doc, err := buildTeamDoc(db, run, res, args[0])
	if err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, string(b), args[1])
}

func runAnalyzeTournament(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, analyzeRun)
	if err != nil {
		return err
	}
	sums, err := db.TeamSummaries(run.RunKey)
	if err != nil {
		return fmt.Errorf("team summaries: %w", err)
	}
	dataJSON, err := buildTournamentContext(run.Competition, run.Season, run.Cutoff, sums)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, dataJSON, args[0])
}

// buildTournamentContext serialises the per-team totals of a run into compact JSON.
func buildTournamentContext(competition, season, cutoff string, sums []storage.TeamSummary) (string, error) {
	teams := make([]map[string]any, 0, len(sums))
	for _, s := range sums {
		teams = append(teams, map[string]any{
			"team":              s.Team,
			"matches":           s.Matches,
			"goals_scored":      s.GoalsScored,
			"goals_conceded":    s.GoalsConceded,
			"xg_scored":         round2(s.XGScored),
			"xg_conceded":       round2(s.XGConceded),
			"avg_pass_accuracy": round2(s.AvgPassAccuracy),
			"avg_possession":    round2(s.AvgPossession),
		})
	}
	doc := map[string]any{
		"subject":     "tournament",
		"competition": competition,
		"season":      season,
		"cutoff":      cutoff,
		"teams":       teams,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	var answer strings.Builder
	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				text := delta.Delta.AsTextDelta().Text
				if analyzeMarkdown {
					answer.WriteString(text)
				} else {
					fmt.Fprint(os.Stdout, text)
				}
			}
		}
	}
	if analyzeMarkdown && answer.Len() > 0 {
		rendered, err := renderMarkdown(answer.String())
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, rendered)
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

// renderMarkdown styles markdown for the current terminal.
func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
