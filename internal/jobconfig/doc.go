// Package jobconfig renders the configuration file patreon-dl reads through
// --config-file.
//
// The section and key names are patreon-dl's, not ours; they must match its
// config format exactly or the tool silently ignores them. Optional filters
// are emitted only when set. One file is written per job and the caller owns
// its removal.
package jobconfig
