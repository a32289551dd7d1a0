// Package textutil turns creator identifiers into directory names that are
// safe on every filesystem the wrapper runs on.
package textutil
