// Package deps finds the external programs the wrapper drives.
//
// The patreon-dl executable is mandatory and is confirmed by running it with
// --help; the first candidate that exits cleanly wins. FFmpeg is optional:
// when it cannot be probed the run continues and only some media kinds fail
// inside patreon-dl. When patreon-dl is missing, Node.js and npm are looked up
// on PATH to explain what to install.
package deps
