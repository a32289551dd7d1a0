// Package preflight verifies the filesystem is ready before any download job
// starts, so a read-only or misconfigured output root fails the run once
// instead of failing every job.
package preflight
