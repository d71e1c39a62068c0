package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError renders a CLIError for the terminal: the categorized message,
// the usage line for argument errors, and the remediation steps. fatih/color
// drops the escape codes when the output is not a terminal or NO_COLOR is
// set, so the same string serves interactive and piped runs.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	writeHeading(&sb, err)
	writeUsage(&sb, err)
	writeRemediation(&sb, err)
	return sb.String()
}

// FprintError writes the formatted error to w. Callers pass the command's
// error stream rather than writing to os.Stderr directly.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

func writeHeading(sb *strings.Builder, err *CLIError) {
	fmt.Fprintf(sb, "%s [%s]: %s\n",
		errorLabel("Error"), categoryFmt(err.Category.String()), errorMsg(err.Message))
}

func writeUsage(sb *strings.Builder, err *CLIError) {
	if err.Usage == "" {
		return
	}
	fmt.Fprintf(sb, "\n%s%s\n", usageLabel("Usage: "), usageText(err.Usage))
}

func writeRemediation(sb *strings.Builder, err *CLIError) {
	if len(err.Remediation) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s\n", fixLabel("To fix this:"))
	for _, step := range err.Remediation {
		fmt.Fprintf(sb, "  %s %s\n", bullet("•"), step)
	}
}
