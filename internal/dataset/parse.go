package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/watchfire-io/trajview/internal/models"
)

// DefaultErrorKeywords mark a tool result as failed when found in its output.
var DefaultErrorKeywords = []string{"error", "exception", "failed", "traceback"}

// Preferred message lists inside a trajectory object, in lookup order.
var messageKeys = []string{"fncall_messages", "messages"}

type rawStep struct {
	Role       *string         `json:"role"`
	Content    json.RawMessage `json:"content"`
	ToolCalls  []rawToolCall   `json:"tool_calls"`
	Name       string          `json:"name"`
	ToolCallID string          `json:"tool_call_id"`
}

type rawToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// ParseTrajectory maps trajectory file content to steps. The content is
// either an array of step records or an object holding one under
// fncall_messages or messages. Step order is kept exactly.
func ParseTrajectory(data []byte, errorKeywords []string) ([]models.Step, error) {
	records, err := stepRecords(data)
	if err != nil {
		return nil, err
	}

	steps := make([]models.Step, 0, len(records))
	for i, raw := range records {
		step, err := parseStep(i, raw, errorKeywords)
		if err != nil {
			return nil, &DataFormatError{Line: i + 1, Err: err}
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func stepRecords(data []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	switch firstByte(data) {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		for _, key := range messageKeys {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &records); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			return records, nil
		}
		return nil, fmt.Errorf("trajectory object has no %s", strings.Join(messageKeys, " or "))
	case 0:
		return nil, fmt.Errorf("empty trajectory file")
	}
	return nil, fmt.Errorf("trajectory must be a JSON array or object")
}

func parseStep(index int, raw json.RawMessage, errorKeywords []string) (models.Step, error) {
	if firstByte(raw) != '{' {
		return models.Step{}, fmt.Errorf("step is not a JSON object")
	}
	var rs rawStep
	if err := json.Unmarshal(raw, &rs); err != nil {
		return models.Step{}, err
	}

	role := models.Role("unknown")
	if rs.Role != nil && *rs.Role != "" {
		role = models.Role(*rs.Role)
	}

	content, err := contentText(rs.Content)
	if err != nil {
		return models.Step{}, fmt.Errorf("content: %w", err)
	}

	step := models.Step{
		Index:   index,
		Role:    role,
		Content: content,
		Raw:     raw,
	}

	for _, tc := range rs.ToolCalls {
		step.ToolCalls = append(step.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Type:      tc.Type,
			Name:      tc.Function.Name,
			Arguments: argumentsText(tc.Function.Arguments),
		})
	}

	if role == models.RoleTool {
		step.Result = &models.ToolResult{
			Name:       rs.Name,
			ToolCallID: rs.ToolCallID,
			Success:    !ContainsErrorKeyword(content, errorKeywords),
		}
	}
	return step, nil
}

// contentText flattens message content: a plain string, null, or a list
// of content parts whose text fields are joined with newlines. Anything
// else is kept as compact JSON.
func contentText(raw json.RawMessage) (string, error) {
	switch firstByte(raw) {
	case 0, 'n':
		return "", nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil {
			return "", err
		}
		texts := make([]string, 0, len(parts))
		for _, p := range parts {
			var s string
			if json.Unmarshal(p, &s) == nil {
				texts = append(texts, s)
				continue
			}
			var part struct {
				Text *string `json:"text"`
			}
			if json.Unmarshal(p, &part) == nil && part.Text != nil {
				texts = append(texts, *part.Text)
			}
		}
		return strings.Join(texts, "\n"), nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// argumentsText returns tool call arguments as the JSON string agents
// emit. Some frameworks inline the object instead of a string.
func argumentsText(raw json.RawMessage) string {
	if len(raw) == 0 || firstByte(raw) == 'n' {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) != nil {
		return string(raw)
	}
	return buf.String()
}

// ContainsErrorKeyword reports whether content mentions any keyword,
// case-insensitively.
func ContainsErrorKeyword(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
