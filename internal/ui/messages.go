// Package ui provides the Bubble Tea dashboard for cybertrend.
package ui

import "github.com/Drominaman/cybertrend-dashboard/internal/trend"

// DatasetLoaded is sent when a load completes and its dataset is published.
type DatasetLoaded struct {
	Dataset *trend.Dataset
}

// LoadFailed is sent when a load attempt fails. The previous dataset stays
// on screen.
type LoadFailed struct {
	Err error
}

// LoadStarted is sent when a refresh begins.
type LoadStarted struct{}

// ExportDone is sent when an export finishes.
type ExportDone struct {
	Path  string
	Count int
	Err   error
}
