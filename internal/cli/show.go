package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/watchfire-io/trajview/internal/nav"
	"github.com/watchfire-io/trajview/internal/view"
)

const defaultWidth = 100

var (
	showStep int
	showTOC  bool
)

var showCmd = &cobra.Command{
	Use:   "show <task>",
	Short: "Print a task's trajectory",
	Long: `Print a task's trajectory step by step.

With --step only that step is printed (steps are numbered from 1).
With --toc only the table of contents is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showStep, "step", "s", 0, "print only this step")
	showCmd.Flags().BoolVar(&showTOC, "toc", false, "print the table of contents only")
}

func runShow(cmd *cobra.Command, args []string) error {
	traj, err := openStore().Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := viewOptions()

	if showTOC {
		for _, e := range view.TableOfContents(traj, opts) {
			printTOCEntry(out, e)
		}
		return nil
	}

	state := nav.State{Mode: nav.ViewFull}
	if cmd.Flags().Changed("step") {
		if showStep < 1 || showStep > traj.Len() {
			return fmt.Errorf("step %d out of range (1-%d)", showStep, traj.Len())
		}
		state = nav.State{StepIndex: showStep - 1, Mode: nav.ViewSingle}
	}

	v := view.Build(traj, state, opts)
	if v.Total == 0 {
		fmt.Fprintln(out, styleHint.Render("Trajectory has no steps."))
		return nil
	}

	width := terminalWidth(out)
	fmt.Fprintf(out, "%s  %s\n\n", styleBrand.Render(v.TaskID), styleLabel.Render(fmt.Sprintf("%d steps", v.Total)))
	if state.Mode == nav.ViewSingle {
		s, _ := v.Focused()
		printStep(out, s, width)
		return nil
	}
	for _, s := range v.Steps {
		printStep(out, s, width)
	}
	return nil
}

func printTOCEntry(out io.Writer, e view.TOCEntry) {
	line := fmt.Sprintf("%3d. %s", e.Number, styleRole(e.Role).Render(e.Title))
	if e.Label != "" {
		line += " " + styleHint.Render(e.Label)
	}
	if m := e.Outcome.Marker(); m != "" {
		line += " " + m
	}
	fmt.Fprintln(out, line)
}

func printStep(out io.Writer, s view.Step, width int) {
	header := fmt.Sprintf("── Step %d · %s ", s.Number, s.Title)
	if m := s.Outcome.Marker(); m != "" {
		header += m + " "
	}
	if pad := width - lipgloss.Width(header); pad > 0 {
		header += strings.Repeat("─", pad)
	}
	fmt.Fprintln(out, styleRole(s.Role).Render(header))

	if s.Content != "" {
		fmt.Fprintln(out, ansi.Wrap(s.Content, width, ""))
	}
	if s.ToolName != "" {
		call := styleCommand.Render(s.ToolName)
		if s.CallID != "" {
			call += " " + styleLabel.Render("("+s.CallID+")")
		}
		fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Tool call:"), call)
		for _, a := range s.Arguments {
			if a.Block {
				fmt.Fprintf(out, "  %s\n", styleArgKey.Render(a.Key+":"))
				for _, l := range strings.Split(a.Value, "\n") {
					fmt.Fprintf(out, "    %s\n", l)
				}
				continue
			}
			fmt.Fprintf(out, "  %s %s\n", styleArgKey.Render(a.Key+":"), a.Value)
		}
		if s.RawArguments != "" {
			fmt.Fprintf(out, "  %s\n", s.RawArguments)
		}
	}
	fmt.Fprintln(out)
}

// terminalWidth returns the width of out when it is a terminal.
func terminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func viewOptions() view.Options {
	return view.OptionsFromSettings(settings.Viewer)
}
