// Package prompt implements the interactive surfaces that answer an
// inquiry: a full-screen terminal prompt built on bubbletea for TTYs and
// a plain line prompter for pipes and scripted input.
//
// Both return inquiry.ErrDismissed when the user closes the prompt
// without answering (Esc, Ctrl+C, or end of input).
package prompt
