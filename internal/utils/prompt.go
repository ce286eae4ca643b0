package utils

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PromptConfirm asks a yes/no question. Anything but y/yes is a no.
func PromptConfirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %v", err)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// PromptUserChoice displays a numbered list and prompts user to select one
func PromptUserChoice(in io.Reader, out io.Writer, items []string, itemType string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no %ss to choose from", itemType)
	}

	fmt.Fprintf(out, "\nFound %d %s(s). Select one:\n\n", len(items), itemType)

	for i, item := range items {
		fmt.Fprintf(out, "%d. %s\n", i+1, item)
	}

	fmt.Fprint(out, "\nEnter number (1-"+strconv.Itoa(len(items))+"): ")

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return -1, fmt.Errorf("failed to read input: %v", err)
	}

	input = strings.TrimSpace(input)
	choice, err := strconv.Atoi(input)
	if err != nil {
		return -1, fmt.Errorf("invalid input: please enter a number")
	}

	if choice < 1 || choice > len(items) {
		return -1, fmt.Errorf("invalid choice: must be between 1 and %d", len(items))
	}

	// Convert from 1-based user input to 0-based array index
	return choice - 1, nil
}
