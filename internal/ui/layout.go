package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 90

	// LayoutWideWidth is the minimum width to show the department next to
	// each name in the chart.
	LayoutWideWidth = 120
)

// Chart layout.
const (
	chartLabelWidth = 16
	chartValueWidth = 6
	chartMinBar     = 10
	chartRecordRows = 6 // name line, four metric lines, spacer
)

// Timing constants.
const (
	// DefaultUIInterval is how often the model re-reads published state.
	DefaultUIInterval = 500 * time.Millisecond

	// ToastDuration is how long a notification stays on screen.
	ToastDuration = 4 * time.Second
)
