package ui

import (
	"errors"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/core"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("operation cancelled by user")

// Prompter asks the user questions. Commands take one so tests can answer
// without a terminal.
type Prompter interface {
	Confirm(label string) (bool, error)
	Input(label, defaultValue string, validate func(string) error) (string, error)
	// MultiSelect returns the indices of the chosen items. Every item
	// starts selected.
	MultiSelect(label string, items []string) ([]int, error)
}

// Terminal prompts on the controlling terminal.
type Terminal struct{}

// Confirm asks a yes/no confirmation question
func (Terminal) Confirm(label string) (bool, error) {
	return ConfirmPrompt(label)
}

// Input asks for text input with optional validation
func (Terminal) Input(label, defaultValue string, validate func(string) error) (string, error) {
	return InputPrompt(label, defaultValue, validate)
}

// MultiSelect presents a checkbox list filtered by fuzzy matching
func (Terminal) MultiSelect(label string, items []string) ([]int, error) {
	return MultiSelectPrompt(label, items)
}

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			// promptui reports a plain "n" as an abort
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrCancelled
		}
		return false, err
	}

	return strings.EqualFold(result, "y"), nil
}

// InputPrompt asks for text input with optional validation
func InputPrompt(label string, defaultValue string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return "", ErrCancelled
		}
		return "", err
	}

	return strings.TrimSpace(result), nil
}

// MultiSelectPrompt presents a checkbox list with every item preselected
func MultiSelectPrompt(label string, items []string) ([]int, error) {
	if len(items) == 0 {
		return nil, nil
	}

	prompt := &survey.MultiSelect{
		Message:  label,
		Options:  items,
		Default:  items,
		PageSize: min(15, len(items)),
		Filter:   FuzzyFilter,
	}

	var answers []core.OptionAnswer
	err := survey.AskOne(
		prompt,
		&answers,
		survey.WithStdio(os.Stdin, os.Stdout, os.Stderr),
	)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, ErrCancelled
		}
		return nil, err
	}

	indices := make([]int, 0, len(answers))
	for _, a := range answers {
		indices = append(indices, a.Index)
	}
	return indices, nil
}

// FuzzyFilter matches an option against the typed filter
func FuzzyFilter(filter string, value string, _ int) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	return fuzzy.MatchNormalizedFold(filter, value)
}
