package planta

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrNotNumber   = errors.New("not a number")
	ErrNotPositive = errors.New("must be greater than zero")
)

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Label  string
	Action func()
}

// Prompter shows modal questions. Every method returns immediately; the
// answer arrives through done once the user responds. Input is blocked
// while a prompt is open.
type Prompter interface {
	Confirm(title, body string, done func(ok bool))
	PromptNumber(title string, current float64, done func(value float64, ok bool))
	Alert(title, body string)
	ContextMenu(x, y float64, title string, items []MenuItem)
	// Pending reports whether a prompt is waiting for an answer.
	Pending() bool
}

// ParseMeasurement parses a positive length in meters. A comma is accepted as
// the decimal separator.
func ParseMeasurement(text string) (float64, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", text, ErrNotNumber)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%v: %w", v, ErrNotPositive)
	}
	return v, nil
}

// formatMeasurement renders a length for prompts and the status line.
func formatMeasurement(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}
