// Package main hosts the patreonfetch CLI entrypoint.
//
// A single cobra command covers every mode. Invoked without arguments it runs
// the fully interactive flow: dependency check, setup questions, URL entry,
// downloads. With any argument it runs from flags: --setup edits settings,
// --list-tiers prints creator tiers, and everything else downloads the given
// URLs. The heavy lifting lives in the internal packages; this package only
// wires them together and renders terminal output.
package main
