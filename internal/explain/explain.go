// Package explain generates the natural-language rationale attached to
// an assignment. Explainers are total: every implementation falls back
// to the deterministic template rather than returning an error.
package explain

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Context is the structured input an explainer renders.
type Context struct {
	WorkType           string `json:"work_type"`
	Priority           int    `json:"priority"`
	ResourceName       string `json:"selected_resource"`
	SkillLevel         int    `json:"skill_level"`
	CasesHandled       int    `json:"cases_handled"`
	AvailabilityWindow string `json:"availability"`
	Workload           *int   `json:"workload"`
}

// Explainer produces a rationale for an assignment. Never fails.
type Explainer interface {
	Explain(ctx context.Context, c Context) string
}

// Config selects an explainer provider.
type Config struct {
	Provider string `yaml:"provider"` // "template" (default) or "llm"
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

// New builds an explainer from config. Unknown providers degrade to the
// template.
func New(cfg Config) Explainer {
	if cfg.Provider == "llm" {
		return newLLMExplainer(cfg)
	}
	return Template{}
}

// Template renders a deterministic one-sentence rationale.
type Template struct{}

func (Template) Explain(_ context.Context, c Context) string {
	urgency := "routine"
	if c.Priority >= 4 {
		urgency = "urgent"
	}
	workload := "N/A"
	if c.Workload != nil {
		workload = fmt.Sprintf("%d", *c.Workload)
	}
	name := c.ResourceName
	if name == "" {
		name = "Selected resource"
	}
	workType := c.WorkType
	if workType == "" {
		workType = "case"
	}
	return fmt.Sprintf(
		"%s was assigned to this %s %s request because of their skill level %d, "+
			"experience across %d similar studies, and availability window %s with workload %s.",
		name, urgency, workType, c.SkillLevel, c.CasesHandled, c.AvailabilityWindow, workload)
}

// Degraded logs a generation failure and falls back to the template.
// Shared by the generative providers.
func degraded(ctx context.Context, c Context, err error) string {
	log.Warn().Err(err).Msg("explanation generation failed; using template")
	return Template{}.Explain(ctx, c)
}
