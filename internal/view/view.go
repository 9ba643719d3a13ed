// Package view turns a trajectory and a navigation state into a
// renderable view model. It performs no I/O and keeps no state: the same
// inputs always produce the same View.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/watchfire-io/trajview/internal/models"
	"github.com/watchfire-io/trajview/internal/nav"
)

// Outcome marks tool result steps in the table of contents.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// Marker returns the outcome glyph, or "" for OutcomeNone.
func (o Outcome) Marker() string {
	switch o {
	case OutcomeSuccess:
		return "✅"
	case OutcomeFailure:
		return "❌"
	}
	return ""
}

const unknownLabel = "UNK"

// Options tunes how steps are presented.
type Options struct {
	// BlockArguments names tool call arguments rendered as blocks.
	BlockArguments []string
	// PreviewWidth bounds TOC labels taken from message content, in runes.
	PreviewWidth int
}

// DefaultOptions returns the stock presentation options.
func DefaultOptions() Options {
	return Options{
		BlockArguments: []string{"old_str", "new_str", "file_text"},
		PreviewWidth:   40,
	}
}

// OptionsFromSettings builds options from the viewer settings, keeping
// defaults for unset values.
func OptionsFromSettings(cfg models.ViewerConfig) Options {
	opts := DefaultOptions()
	if len(cfg.BlockArguments) > 0 {
		opts.BlockArguments = cfg.BlockArguments
	}
	if cfg.PreviewWidth > 0 {
		opts.PreviewWidth = cfg.PreviewWidth
	}
	return opts
}

// Argument is one rendered tool call argument.
type Argument struct {
	Key   string
	Value string
	Block bool
}

// Step is one rendered trajectory step.
type Step struct {
	Index   int
	Number  int
	Role    models.Role
	Title   string
	Content string
	Focused bool

	// Assistant tool call.
	CallID       string
	ToolName     string
	Arguments    []Argument
	RawArguments string // set when the arguments are not a JSON object

	// Tool result.
	Outcome Outcome
}

// TOCEntry is one table of contents line.
type TOCEntry struct {
	Index   int
	Number  int
	Role    models.Role
	Title   string
	Label   string
	Outcome Outcome
	Current bool
}

// RoleCount is the number of steps with a role.
type RoleCount struct {
	Role  models.Role
	Count int
}

// View is everything a surface needs to render one navigation state.
type View struct {
	TaskID string
	Mode   nav.ViewMode
	Total  int

	// Steps holds every step in full mode. In single mode it holds the
	// focused step plus its predecessor and successor when they exist.
	Steps []Step
	Focus int // position of the focused step in Steps, -1 when none

	TOC        []TOCEntry
	RoleCounts []RoleCount
	Summary    Summary
}

// Focused returns the focused step.
func (v View) Focused() (Step, bool) {
	if v.Focus < 0 || v.Focus >= len(v.Steps) {
		return Step{}, false
	}
	return v.Steps[v.Focus], true
}

// Build renders traj for state. A nil trajectory yields an empty view.
func Build(traj *models.Trajectory, state nav.State, opts Options) View {
	v := View{Mode: state.Mode, Focus: -1}
	if state.Mode == "" {
		v.Mode = nav.ViewFull
	}
	if traj == nil {
		return v
	}
	v.TaskID = traj.TaskID
	v.Total = traj.Len()
	if v.Total == 0 {
		return v
	}

	cursor := state.StepIndex
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= v.Total {
		cursor = v.Total - 1
	}

	lo, hi := 0, v.Total
	if v.Mode == nav.ViewSingle {
		lo, hi = max(cursor-1, 0), min(cursor+2, v.Total)
	}
	for i := lo; i < hi; i++ {
		s := renderStep(&traj.Steps[i], opts)
		if i == cursor {
			s.Focused = true
			v.Focus = len(v.Steps)
		}
		v.Steps = append(v.Steps, s)
	}

	v.TOC = TableOfContents(traj, opts)
	v.TOC[cursor].Current = true
	v.RoleCounts = CountRoles(traj)
	v.Summary = Summarize(traj)
	return v
}

// TableOfContents returns one entry per step, in step order.
func TableOfContents(traj *models.Trajectory, opts Options) []TOCEntry {
	toc := make([]TOCEntry, 0, traj.Len())
	for i := range traj.Steps {
		s := &traj.Steps[i]
		toc = append(toc, TOCEntry{
			Index:   i,
			Number:  i + 1,
			Role:    s.Role,
			Title:   title(s),
			Label:   label(s, opts.PreviewWidth),
			Outcome: outcome(s),
		})
	}
	return toc
}

// CountRoles counts steps per role, ordered by first appearance.
func CountRoles(traj *models.Trajectory) []RoleCount {
	var counts []RoleCount
	pos := make(map[models.Role]int)
	for _, s := range traj.Steps {
		i, ok := pos[s.Role]
		if !ok {
			i = len(counts)
			pos[s.Role] = i
			counts = append(counts, RoleCount{Role: s.Role})
		}
		counts[i].Count++
	}
	return counts
}

// RoleName returns the capitalised role name.
func RoleName(r models.Role) string {
	// Casers are stateful; one per call keeps Build safe across goroutines.
	return cases.Title(language.English).String(string(r))
}

func title(s *models.Step) string {
	switch s.Role {
	case models.RoleSystem:
		return "System Prompt"
	case models.RoleUser:
		return "User Prompt"
	case models.RoleAssistant:
		if s.ToolCall() != nil {
			return "Assistant Action"
		}
		return "Assistant Response"
	case models.RoleTool:
		return "Tool Result"
	}
	return RoleName(s.Role)
}

func label(s *models.Step, width int) string {
	switch s.Role {
	case models.RoleSystem:
		return "Initial system prompt and configuration"
	case models.RoleUser:
		return "Uploaded files and issue description"
	case models.RoleAssistant:
		if call := s.ToolCall(); call != nil {
			return orUnknown(call.Name)
		}
	case models.RoleTool:
		if s.Result != nil {
			return orUnknown(s.Result.Name)
		}
		return unknownLabel
	}
	return Preview(s.Content, width)
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}

func outcome(s *models.Step) Outcome {
	if s.Result == nil {
		return OutcomeNone
	}
	if s.Result.Success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// Preview returns the first line of content cut to width runes, with
// "..." appended when it was cut.
func Preview(content string, width int) string {
	line, _, _ := strings.Cut(content, "\n")
	if width <= 0 {
		return line
	}
	r := []rune(line)
	if len(r) <= width {
		return line
	}
	return string(r[:width]) + "..."
}

func renderStep(s *models.Step, opts Options) Step {
	out := Step{
		Index:   s.Index,
		Number:  s.Index + 1,
		Role:    s.Role,
		Title:   title(s),
		Content: s.Content,
		Outcome: outcome(s),
	}
	if call := s.ToolCall(); call != nil {
		out.CallID = call.ID
		out.ToolName = orUnknown(call.Name)
		out.Arguments, out.RawArguments = RenderArguments(*call, opts.BlockArguments)
	}
	return out
}

// RenderArguments renders a call's arguments in source order. Names in
// block are marked as blocks. Arguments that are not a JSON object are
// returned as the raw string instead.
func RenderArguments(call models.ToolCall, block []string) ([]Argument, string) {
	args, err := call.ParseArguments()
	if err != nil {
		return nil, call.Arguments
	}
	out := make([]Argument, 0, len(args))
	for _, a := range args {
		out = append(out, Argument{Key: a.Key, Value: a.Value, Block: slices.Contains(block, a.Key)})
	}
	return out, ""
}
