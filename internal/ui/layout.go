package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the stacks sidebar hides.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the network column.
	LayoutWideWidth = 130

	// SidebarWidth is the stacks sidebar width including its border.
	SidebarWidth = 30
)

// Timing constants.
const (
	// RequestTimeout bounds every API call issued from the UI.
	RequestTimeout = 15 * time.Second

	// CopyFlashDuration is how long the copy acknowledgement stays lit.
	CopyFlashDuration = 300 * time.Millisecond

	// NoticeDuration is how long a dashboard notice stays in the header.
	NoticeDuration = 4 * time.Second
)

// Dashboard rows above the content area: header and command bar.
const chromeRows = 2
