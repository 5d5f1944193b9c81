package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stock_research/pkg/core/prompt"
	"stock_research/pkg/core/snapcache"
)

// ErrNoData is returned when report generation is attempted for a symbol
// with no cached snapshots. Unlike the refresh routine, the pipeline treats
// missing data as a hard failure: there is nothing to build a prompt from.
var ErrNoData = errors.New("no cached data available for report generation")

// PromptRunner sends one prompt to the active LLM provider.
// *agent.Manager satisfies this.
type PromptRunner interface {
	ExecutePrompt(ctx context.Context, agentType, rawPrompt, rawSystemPrompt string, options map[string]interface{}) (string, error)
}

// Stage is one request/response cycle in the refinement sequence. The
// instruction may reference ${original} (the filled report template) and,
// when UsesPrevious is set, ${previous} (the prior stage's output).
type Stage struct {
	Name         string
	Instruction  string
	UsesPrevious bool
}

// DefaultPolishStages is the fixed draft/focus/flow/flair sequence the
// long-form article generator runs. All four stages always run; callers
// budget for four times the latency and token cost of a single call.
func DefaultPolishStages() []Stage {
	return []Stage{
		{
			Name:        "draft",
			Instruction: "${original}",
		},
		{
			Name: "focus",
			Instruction: "Below are writing instructions followed by a draft produced from them. " +
				"Revise the draft so it matches the instructions exactly: trim anything the " +
				"instructions did not ask for and add anything they did that is missing.\n\n" +
				"--- INSTRUCTIONS ---\n${original}\n\n--- DRAFT ---\n${previous}",
			UsesPrevious: true,
		},
		{
			Name: "flow",
			Instruction: "Improve the readability of the following article: smooth the transitions " +
				"between sections and vary sentence length. Keep the content and structure intact. " +
				"Return only the revised article.\n\n${previous}",
			UsesPrevious: true,
		},
		{
			Name: "flair",
			Instruction: "Give the following article a stronger introduction and conclusion and more " +
				"dynamic word choice. Keep every fact unchanged. Return only the revised article.\n\n${previous}",
			UsesPrevious: true,
		},
	}
}

// StagesFor picks the stage sequence for a report type: the long-form
// article gets the full polish sequence, everything else is a single draft.
func StagesFor(t Type) []Stage {
	if t == TypeLongFormArticle {
		return DefaultPolishStages()
	}
	return []Stage{{Name: "draft", Instruction: "${original}"}}
}

// Pipeline folds a prompt through an ordered stage list. There is no
// branching and no early exit; every stage runs exactly once.
type Pipeline struct {
	runner PromptRunner
	log    *SessionLog
}

func NewPipeline(runner PromptRunner) *Pipeline {
	return &Pipeline{runner: runner, log: NewSessionLog()}
}

// SessionLog exposes the in-memory prompt/response record.
func (p *Pipeline) SessionLog() *SessionLog {
	return p.log
}

// Run fills the report template with the substitutions and folds it through
// the stages, returning the final stage's output.
func (p *Pipeline) Run(ctx context.Context, reportType Type, template string, subs map[string]string, stages []Stage) (string, error) {
	original := prompt.Fill(template, subs)

	output := ""
	for _, stage := range stages {
		stageSubs := map[string]string{"original": original}
		if stage.UsesPrevious {
			stageSubs["previous"] = output
		}
		stagePrompt := prompt.Fill(stage.Instruction, stageSubs)

		resp, err := p.runner.ExecutePrompt(ctx, "report", stagePrompt, "", nil)
		tag := fmt.Sprintf("%s.%s", reportType, stage.Name)
		p.log.Append(tag, stagePrompt, resp)
		if err != nil {
			return "", fmt.Errorf("%s stage failed: %w", stage.Name, err)
		}
		output = resp
	}
	return output, nil
}

// Generate builds a report for a symbol from its merged snapshot: shape the
// payload for the report type, fill the registered template, and run the
// stage sequence. Generation never persists anything; saving is a separate,
// explicit call on the Store.
func (p *Pipeline) Generate(ctx context.Context, reportType Type, ticker string, merged *snapcache.Merged) (string, error) {
	if merged == nil || len(merged.Data) == 0 {
		return "", ErrNoData
	}

	tmpl, err := prompt.Get().GetPrompt(reportType.PromptID())
	if err != nil {
		return "", fmt.Errorf("no template for report type %s: %w", reportType, err)
	}

	payload := ShapePayload(reportType, merged)
	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report payload: %w", err)
	}

	subs := map[string]string{
		"companyName": CompanyName(merged, ticker),
		"ticker":      ticker,
		"jsonData":    string(payloadJSON),
	}
	return p.Run(ctx, reportType, tmpl.UserPrompt, subs, StagesFor(reportType))
}
