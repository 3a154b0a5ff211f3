// Package ui implements the interactive match-decision prompt using bubbletea's Elm architecture.
//
// The pipeline pauses on every weak (tier-2/3) match and asks the operator to
// accept, reject, or skip. [PromptDecider] satisfies the tasks.Decider
// interface by running a one-shot bubbletea program per proposal: the prompt
// [Model] renders the citation next to the candidate track and waits for a
// single keypress (y/n/s, or q to cancel the run).
//
// Keyboard bindings are declared with charmbracelet/bubbles/key and surfaced
// through the contextual help line; styling uses lipgloss via the shared
// [Palette].
package ui
