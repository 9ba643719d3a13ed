package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Role tags a trajectory step.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Known reports whether r is one of the four roles agents emit.
// Other roles are preserved verbatim.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// ToolCall is a structured function call issued by the assistant.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // raw JSON as emitted by the agent
}

// IsFunction reports whether the call is a function call. Records that
// omit the type are taken as function calls.
func (c ToolCall) IsFunction() bool {
	return c.Type == "" || c.Type == "function"
}

// Argument is one key/value pair of a tool call's arguments, in source order.
type Argument struct {
	Key   string
	Value string
}

// ParseArguments decodes the call's JSON arguments into ordered pairs.
// String values are returned unquoted; other values as compact JSON.
func (c ToolCall) ParseArguments() ([]Argument, error) {
	if c.Arguments == "" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(c.Arguments)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("arguments are not a JSON object")
	}

	var args []Argument
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if len(raw) > 0 && raw[0] == '"' {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, err
			}
			args = append(args, Argument{Key: key, Value: s})
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		args = append(args, Argument{Key: key, Value: buf.String()})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return args, nil
}

// ToolResult describes the outcome of a tool execution step.
type ToolResult struct {
	Name       string `json:"name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
	Success    bool   `json:"success"`
}

// Step is one entry of a trajectory. The payload depends on Role:
// assistant steps may carry ToolCalls, tool steps carry Result.
// Raw holds the source record untouched, unknown fields included.
type Step struct {
	Index     int             `json:"index"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	ToolCalls []ToolCall      `json:"tool_calls,omitempty"`
	Result    *ToolResult     `json:"result,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// ToolCall returns the first tool call, or nil.
func (s *Step) ToolCall() *ToolCall {
	if len(s.ToolCalls) == 0 {
		return nil
	}
	return &s.ToolCalls[0]
}

// Trajectory is the ordered log of one agent run.
type Trajectory struct {
	TaskID string
	Path   string
	Steps  []Step
}

// Len returns the number of steps.
func (t *Trajectory) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}
