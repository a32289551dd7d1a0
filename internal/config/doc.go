// Package config loads and persists the wrapper's settings table.
//
// Settings live in a TOML document under a single [settings] table. The file
// is meant to be edited by hand, so loading is forgiving: unknown keys are
// ignored, values that fail to parse keep their defaults, and an unreadable or
// malformed file degrades to the defaults with a warning instead of an error.
// Every field is parsed once into a typed Settings value; the rest of the
// program never inspects raw strings.
//
// Saving writes every key back as a string (unset optional values become
// "None") so the file round-trips through Load unchanged.
package config
