package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jazzx/internal/tasks"
)

// Model is the one-shot decision prompt for a single weak-match proposal.
//
// It renders the citation alongside the candidate track and quits on the
// first y/n/s keypress, leaving its decision in place for the caller.
type Model struct {
	proposal tasks.Proposal
	decision tasks.Decision
	decided  bool
	aborted  bool
	help     help.Model
	keys     keyMap
}

// NewModel creates a decision prompt for the given proposal.
func NewModel(p tasks.Proposal) *Model {
	return &Model{
		proposal: p,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y":
			m.decision = tasks.DecisionAccept
			m.decided = true
			return m, tea.Quit
		case "n":
			m.decision = tasks.DecisionReject
			m.decided = true
			return m, tea.Quit
		case "s":
			m.decision = tasks.DecisionSkip
			m.decided = true
			return m, tea.Quit
		case "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the proposal and the decision help line. Once the prompt is
// answered it renders a one-line outcome instead, which bubbletea leaves on
// screen as the final frame.
func (m *Model) View() string {
	if m.aborted {
		return styles.err.Render("✗ Cancelled") + "\n"
	}
	if m.decided {
		switch m.decision {
		case tasks.DecisionAccept:
			return styles.ok.Render("✓ Accepted") + "\n"
		case tasks.DecisionReject:
			return styles.warn.Render("− Rejected, trying next match") + "\n"
		default:
			return styles.warn.Render("− Skipped") + "\n"
		}
	}

	title := styles.title.Render(fmt.Sprintf("Match for %q", m.proposal.StandardTitle))

	var tier string
	if m.proposal.Tier == 2 {
		tier = styles.warn.Render("partial match")
	} else {
		tier = styles.warn.Render("best guess")
	}

	cited := fmt.Sprintf("Cited recording:  %s", m.proposal.Citation.DisplayText)
	found := fmt.Sprintf("Found track:      %s — %s (%s)",
		strings.Join(m.proposal.Candidate.ArtistNames, ", "),
		m.proposal.Candidate.TrackName,
		m.proposal.Candidate.AlbumName,
	)

	helpView := styles.help.Render(m.help.ShortHelpView(m.keys.ShortHelp()))

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n\n%s\n", title, tier, cited, found, helpView)
}

// Decision returns the recorded decision and whether one was made.
func (m *Model) Decision() (tasks.Decision, bool) {
	return m.decision, m.decided
}

// PromptDecider satisfies tasks.Decider by running a one-shot prompt program
// per proposal.
type PromptDecider struct{}

// Decide blocks until the operator answers or the context is cancelled.
// Quitting the prompt (q, ctrl+c) aborts the citation with an error so the
// pipeline can wind down.
func (PromptDecider) Decide(ctx context.Context, p tasks.Proposal) (tasks.Decision, error) {
	model := NewModel(p)

	program := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return tasks.DecisionSkip, fmt.Errorf("decision prompt failed: %w", err)
	}

	m, ok := final.(*Model)
	if !ok {
		return tasks.DecisionSkip, fmt.Errorf("unexpected prompt model type %T", final)
	}

	if decision, decided := m.Decision(); decided {
		return decision, nil
	}
	return tasks.DecisionSkip, fmt.Errorf("decision prompt aborted")
}
