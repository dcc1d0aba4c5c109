package explain

import "github.com/charmbracelet/lipgloss"

// Styling used by the CLI and REPL when rendering query and explain output.
// Grounded on the teacher's lipgloss-based terminal styling, kept
// independent of the full bubbletea TUI (§5 requires a synchronous,
// single-threaded command loop, which bubbletea's event model does not
// fit — see DESIGN.md).
var (
	yesStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	noStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	cycleStyle = lipgloss.NewStyle().Faint(true)
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

// StyleYes renders the "Yes." query banner.
func StyleYes() string { return yesStyle.Render("Yes.") }

// StyleNo renders the "No." query banner.
func StyleNo() string { return noStyle.Render("No.") }

// StyleCycleBreak dims a "(*)" back-reference marker.
func StyleCycleBreak(s string) string { return cycleStyle.Render(s) }

// StyleRule highlights a rule name in an explain tree.
func StyleRule(s string) string { return ruleStyle.Render(s) }
