package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔═════════════════════════════════════════════════════╗
    ║ ██████╗  █████╗ ██████╗ ███████╗██╗███████╗██╗  ██╗   ██╗ ║
    ║ ██╔══██╗██╔══██╗██╔══██╗██╔════╝██║██╔════╝██║  ╚██╗ ██╔╝ ║
    ║ ██████╔╝███████║██████╔╝███████╗██║█████╗  ██║   ╚████╔╝  ║
    ║ ██╔═══╝ ██╔══██║██╔══██╗╚════██║██║██╔══╝  ██║    ╚██╔╝   ║
    ║ ██║     ██║  ██║██║  ██║███████║██║██║     ███████╗██║    ║
    ║ ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝╚═╝     ╚══════╝╚═╝    ║
    ║          SOCIAL PROFILE METRICS DASHBOARD               ║
    ╚═════════════════════════════════════════════════════╝
`

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonRed     = lipgloss.Color("#FF3131")
	dimWhite    = lipgloss.Color("#B0B0B0")
)

// Color functions for terminal output
var (
	Cyan    = colorize(neonCyan)
	Yellow  = colorize(neonYellow)
	Red     = colorize(neonRed)
	Green   = colorize(neonGreen)
	Magenta = colorize(neonMagenta)
	Dim     = func(text string) string { return lipgloss.NewStyle().Faint(true).Render(text) }
)

func colorize(c lipgloss.Color) func(string) string {
	style := lipgloss.NewStyle().Foreground(c)
	return func(text string) string {
		return style.Render(text)
	}
}

var (
	outMu  sync.Mutex
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
	quiet  bool
)

// SetOutput redirects regular output and error output. Nil keeps the
// current writer.
func SetOutput(stdout, stderr io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if stdout != nil {
		out = stdout
	}
	if stderr != nil {
		errOut = stderr
	}
}

// SetQuiet suppresses everything except errors and requested data
func SetQuiet(q bool) {
	outMu.Lock()
	defer outMu.Unlock()
	quiet = q
}

// Quiet reports whether quiet mode is on
func Quiet() bool {
	outMu.Lock()
	defer outMu.Unlock()
	return quiet
}

func printf(chatty bool, format string, args ...interface{}) {
	outMu.Lock()
	defer outMu.Unlock()
	if chatty && quiet {
		return
	}
	fmt.Fprintf(out, format, args...)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	printf(true, "%s", Cyan(ASCIILogo))
}

// PrintError prints an error message in red to the error output. It is
// never silenced.
func PrintError(msg string, args ...interface{}) {
	outMu.Lock()
	defer outMu.Unlock()
	if len(args) > 0 {
		fmt.Fprintln(errOut, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(errOut, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printf(true, "%s\n", Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	printf(true, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		printf(true, "%s\n", Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printf(true, "%s\n", Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printf(true, "%s\n", Magenta(msg))
}

// PrintData writes command output that is shown even in quiet mode
func PrintData(format string, args ...interface{}) {
	printf(false, format, args...)
}
