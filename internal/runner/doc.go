// Package runner drives patreon-dl once per URL and tallies the outcomes.
//
// Jobs run strictly one after another. Each job gets its own creator
// directory and its own generated configuration file; both are derived from
// an immutable Settings snapshot, so nothing shared is mutated between jobs.
// The configuration file is removed when the job ends, whatever the outcome.
//
// A job succeeds only when patreon-dl exits with status zero. Any other exit
// status, and any error while preparing the job, fails that job alone; the
// loop moves on to the next URL. Cancelling the context aborts the run.
package runner
