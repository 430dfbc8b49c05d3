// Package services implements the driving port interfaces.
// Services contain the editing logic (history, stroke capture, hit-testing,
// autosave) and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO.
package services
