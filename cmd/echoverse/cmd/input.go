package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readTextInteractive collects pasted text until a blank line follows at
// least one line, or EOF
func readTextInteractive(in *bufio.Reader, out io.Writer) string {
	fmt.Fprintln(out, "\nPaste your text. End input with a blank line (press Enter twice):")

	var lines []string
	for {
		line, err := in.ReadString('\n')
		if line == "" && err != nil {
			break
		}
		if strings.TrimSpace(line) == "" && len(lines) > 0 {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, ""))
}

// pickToneNumbered is the non-interactive-terminal fallback of the tone
// picker: a numbered prompt with 0 selecting a custom tone. EOF yields an
// empty string.
func pickToneNumbered(in *bufio.Reader, out io.Writer, tones []string) string {
	fmt.Fprintln(out, "\nSelect a tone:")
	for i, t := range tones {
		fmt.Fprintf(out, "  %d. %s\n", i+1, t)
	}
	fmt.Fprintln(out, "  0. Custom")

	for {
		fmt.Fprint(out, "\nEnter number: ")
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return ""
		}

		sel, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(out, "Please enter a number.")
			if err != nil {
				return ""
			}
			continue
		}

		if sel == 0 {
			fmt.Fprint(out, "Enter your custom tone: ")
			custom, _ := in.ReadString('\n')
			return strings.TrimSpace(custom)
		}
		if sel >= 1 && sel <= len(tones) {
			return tones[sel-1]
		}

		fmt.Fprintln(out, "Invalid selection, try again.")
		if err != nil {
			return ""
		}
	}
}
