package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// extractionInstruction pins the output contract. The model is told to
// answer with the bare array only; ParseCandidates still defends against
// fences and prose because models do not always comply.
const extractionInstruction = `You extract masjid (mosque) reviews from WhatsApp messages.
Reply with ONLY a JSON array, no prose, no code fences.
Each element has this shape:
{"masjid_name": string, "city": string or null, "rating": number from 1 to 5 or null, "review_text": string}
masjid_name is the masjid the sender talks about. Fill city only when the sender names one.
Fill rating only when the sender gives one (accept forms like "8/10" as the number written).
review_text is a short summary of the sender's opinion, kept in the sender's language.
One message can contain several reviews; emit one element per masjid.
If the message contains no review at all, reply with [].`

// ExtractReviews sends one normalized message through the extraction prompt
// and returns the raw assistant text. The caller treats that text as
// untrusted.
func ExtractReviews(ctx context.Context, model string, message string) (string, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	client := openai.NewClient(apiKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractionInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: message,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// ReviewCandidate is one structured item pulled out of a message, before
// catalog resolution.
type ReviewCandidate struct {
	MasjidName string
	City       string
	Rating     *float64
	ReviewText string
}

const (
	PARSE_OK            = "ok"
	PARSE_NOT_PARSEABLE = "not_parseable"
	PARSE_NOT_ARRAY     = "not_array"
)

// ParseCandidates decodes the raw model output into candidates. The text is
// untrusted: fences are stripped first, every field is type-checked, and
// items without a usable masjid_name are dropped (the skipped count goes to
// the webhook log). An empty array is a valid result, distinct from a
// decode failure.
func ParseCandidates(raw string) (candidates []ReviewCandidate, skipped int, outcome string) {
	clean := StripCodeFences(raw)

	var decoded any
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return nil, 0, PARSE_NOT_PARSEABLE
	}

	items, ok := decoded.([]any)
	if !ok {
		return nil, 0, PARSE_NOT_ARRAY
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}

		name := strings.TrimSpace(stringField(obj, "masjid_name"))
		if name == "" {
			skipped++
			continue
		}

		candidates = append(candidates, ReviewCandidate{
			MasjidName: name,
			City:       strings.TrimSpace(stringField(obj, "city")),
			Rating:     numberField(obj, "rating"),
			ReviewText: strings.TrimSpace(stringField(obj, "review_text")),
		})
	}

	return candidates, skipped, PARSE_OK
}

// StripCodeFences removes a surrounding markdown fence (``` or ```json)
// when present. Inner content is untouched.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func stringField(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// numberField accepts a JSON number or a numeric string; anything else
// counts as absent.
func numberField(obj map[string]any, key string) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}
