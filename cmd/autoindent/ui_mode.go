package main

import (
	"fmt"
	"strings"
)

// uiMode is the --ui setting of fix.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

func parseUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiAuto, nil
	case "on":
		return uiOn, nil
	case "off":
		return uiOff, nil
	}
	return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// useProgressView decides whether fix renders the Bubble Tea view. In auto
// mode the view needs a terminal and is suppressed by --quiet.
func useProgressView(mode uiMode, tty, quiet bool) bool {
	switch mode {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return tty && !quiet
}
