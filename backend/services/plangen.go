package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"stride/backend/utils"

	openai "github.com/sashabaranov/go-openai"
)

// GeneratedPlan is the plan document produced by the external generator,
// before it is materialized into career plan rows.
type GeneratedPlan struct {
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Steps   []GeneratedStep `json:"steps"`
}

type GeneratedStep struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Skills      []GeneratedSkill `json:"skills"`
}

type GeneratedSkill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// PlanGenerator turns a quiz answer set into a career plan. Implementations
// may be slow and may fail; callers bound the call with a context timeout
// and report failures as DependencyUnavailable.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, answers map[string]string) (*GeneratedPlan, error)
}

const planSystemPrompt = `You are a career advisor for university students.
Given the student's quiz answers, respond with a JSON object only:
{"title": string, "summary": string, "steps": [{"title": string, "description": string,
"skills": [{"name": string, "category": string}]}]}
Produce 3 to 5 ordered steps, each with 2 to 4 concrete skills.`

// OpenAIPlanGenerator is the production PlanGenerator backed by the
// chat-completions API.
type OpenAIPlanGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIPlanGenerator(apiKey, model string) *OpenAIPlanGenerator {
	return &OpenAIPlanGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIPlanGenerator) GeneratePlan(ctx context.Context, answers map[string]string) (*GeneratedPlan, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: planSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: formatAnswers(answers)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: plan generation: %v", utils.ErrDependencyUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: plan generation returned no choices", utils.ErrDependencyUnavailable)
	}

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &plan); err != nil {
		return nil, fmt.Errorf("%w: malformed plan document: %v", utils.ErrDependencyUnavailable, err)
	}
	if plan.Title == "" || len(plan.Steps) == 0 {
		return nil, fmt.Errorf("%w: plan document missing title or steps", utils.ErrDependencyUnavailable)
	}

	return &plan, nil
}

func formatAnswers(answers map[string]string) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Quiz answers:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, answers[k])
	}
	return b.String()
}
