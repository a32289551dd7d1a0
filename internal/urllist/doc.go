// Package urllist gathers the URLs a run will process and derives creator
// identifiers from them.
//
// URL files are plain text with one entry per line. Blank lines and lines
// starting with "#" are skipped. File entries always precede URLs given on
// the command line.
package urllist
