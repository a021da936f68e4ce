package revision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/utils"
)

// IntentExtractor turns a free-form revision instruction into a structured
// mutation intent. Implementations may call out to an external model.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, instruction string, cal models.WeekCalendar) (MutationIntent, error)
}

// GenAIExtractor extracts intents using Google's Gemini API.
type GenAIExtractor struct {
	client *genai.Client
	model  string
}

// NewGenAIExtractor creates a Gemini-backed intent extractor.
func NewGenAIExtractor(apiKey, model string) (*GenAIExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIExtractor{client: client, model: model}, nil
}

const intentPrompt = `You convert a calendar revision instruction into JSON.

Respond with a single JSON object and nothing else:
{
  "kind": "add" | "remove" | "move" | "resize",
  "item_id": "id of the targeted item when it can be identified",
  "description": "item description, for adds or when no id is known",
  "day": "monday".."sunday" when the instruction names a day,
  "time": "HH:MM" when the instruction names a time,
  "duration_minutes": integer when the instruction names a duration,
  "priority": "high" | "medium" | "low" for adds that state one,
  "names_fixed_event": true only when the instruction explicitly names a fixed commitment as the thing to change
}

Current calendar:
%s

Instruction: %s`

// ExtractIntent asks the model for a structured intent and validates the
// response before returning it.
func (e *GenAIExtractor) ExtractIntent(ctx context.Context, instruction string, cal models.WeekCalendar) (MutationIntent, error) {
	calJSON, err := json.Marshal(cal)
	if err != nil {
		return MutationIntent{}, fmt.Errorf("failed to encode calendar: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(intentPrompt, calJSON, instruction), genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return MutationIntent{}, fmt.Errorf("GenAI intent extraction failed: %w", err)
	}

	return ParseIntent(result.Text())
}

// ParseIntent decodes and sanity-checks a JSON intent payload. Model output
// occasionally arrives fenced in markdown, so fences are stripped first.
func ParseIntent(raw string) (MutationIntent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var intent MutationIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return MutationIntent{}, fmt.Errorf("failed to decode intent: %w", err)
	}

	switch intent.Kind {
	case IntentAdd, IntentRemove, IntentMove, IntentResize:
	default:
		return MutationIntent{}, fmt.Errorf("unknown mutation kind %q", intent.Kind)
	}
	if intent.Day != "" {
		day, err := utils.ParseDay(string(intent.Day))
		if err != nil {
			return MutationIntent{}, fmt.Errorf("unknown day %q", intent.Day)
		}
		intent.Day = day
	}
	return intent, nil
}
