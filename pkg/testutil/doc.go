// Package testutil provides test environments for yawms components.
//
// NewEnvironment isolates a test from the user's machine: XDG config and
// state homes point into a temp directory and every YAWMS_ variable is
// cleared, so config loading and log files only see what the test writes.
package testutil
