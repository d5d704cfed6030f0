package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
//
// This helper is useful for note bodies.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetConfirm prompts with a yes/no question and returns the answer.
// An empty line yields the provided default.
func GetConfirm(reader *bufio.Reader, prompt string, def bool, w io.Writer) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, hint), w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes", "j", "ja":
		return true, nil
	default:
		return false, nil
	}
}

// GetOptionalInt prompts for an integer. An empty line returns nil.
func GetOptionalInt(reader *bufio.Reader, prompt string, w io.Writer) (*int64, error) {
	answer, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", answer)
	}
	return &v, nil
}

// GetFloat prompts for a decimal number. An empty line yields the provided
// default.
func GetFloat(reader *bufio.Reader, prompt string, def float64, w io.Writer) (float64, error) {
	answer, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return def, nil
	}
	// Accept a decimal comma, common on German keyboards.
	answer = strings.ReplaceAll(answer, ",", ".")
	v, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", answer)
	}
	return v, nil
}

// timeLayout is the input format for drop-off and pick-up times.
const timeLayout = "2006-01-02 15:04"

// GetOptionalTime prompts for a local "YYYY-MM-DD HH:MM" timestamp. An empty
// line returns nil.
func GetOptionalTime(reader *bufio.Reader, prompt string, w io.Writer) (*time.Time, error) {
	answer, err := GetSimpleText(reader, fmt.Sprintf("%s (%s)", prompt, timeLayout), w)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(timeLayout, answer, time.Local)
	if err != nil {
		return nil, fmt.Errorf("not a timestamp: %q", answer)
	}
	t = t.UTC()
	return &t, nil
}
