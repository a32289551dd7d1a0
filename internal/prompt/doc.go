// Package prompt implements the interactive question-and-answer flows: the
// setup questionnaire that edits Settings and the loop that collects URLs.
//
// Every answer is validated against the same rules the settings file uses.
// Invalid or empty answers keep the current value, and end of input is
// treated as an empty answer so piping a partial script never fails.
package prompt
