package tasks

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/services"
	"github.com/desertthunder/jazzx/internal/shared"
)

// Decision is the outcome of presenting a weak-match proposal.
type Decision int

const (
	// DecisionAccept commits the proposed track as the citation's resolution.
	DecisionAccept Decision = iota
	// DecisionReject discards the proposal and moves to the next tier-2/3
	// candidate in the same result list.
	DecisionReject
	// DecisionSkip abandons resolution for this citation entirely.
	DecisionSkip
)

// Proposal is a weak (tier-2 or tier-3) candidate presented for a decision.
type Proposal struct {
	StandardTitle string
	Citation      models.Citation
	Candidate     models.Candidate
	Tier          int
}

// Decider supplies accept/reject/skip decisions for weak-match proposals.
//
// Implementations may block on user input; the pipeline suspends until a
// decision arrives, and cancelling the run is only observable here.
type Decider interface {
	Decide(ctx context.Context, p Proposal) (Decision, error)
}

// AutoDecider is a non-interactive Decider for batch and test runs.
type AutoDecider struct {
	// AcceptWeak accepts every proposal when true; otherwise every proposal
	// is rejected and unresolved citations fall through to "no match".
	AcceptWeak bool
}

func (d AutoDecider) Decide(_ context.Context, _ Proposal) (Decision, error) {
	if d.AcceptWeak {
		return DecisionAccept, nil
	}
	return DecisionReject, nil
}

// searchLimit caps candidates requested per query.
const searchLimit = 10

// Resolver turns citations into catalog track resolutions.
type Resolver struct {
	catalog services.Catalog
	decider Decider
	logger  *log.Logger
}

// NewResolver creates a Resolver using the given catalog and decider.
func NewResolver(catalog services.Catalog, decider Decider, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if decider == nil {
		decider = AutoDecider{}
	}
	return &Resolver{catalog: catalog, decider: decider, logger: logger}
}

// queries builds the fixed search query sequence for a citation.
func queries(standardTitle string, c models.Citation) []string {
	return []string{
		strings.TrimSpace(c.Artist + " " + standardTitle),
		strings.TrimSpace(c.Artist + " " + c.Info),
		strings.TrimSpace(standardTitle + " " + c.Artist),
	}
}

// artistMatchStrong reports whether the citation artist contains, or is
// contained by, any of the candidate's artist names (case-insensitive).
// Used by tier 1.
func artistMatchStrong(citationArtist string, names []string) bool {
	artist := strings.ToLower(citationArtist)
	for _, name := range names {
		n := strings.ToLower(name)
		if n == "" {
			continue
		}
		if strings.Contains(artist, n) || strings.Contains(n, artist) {
			return true
		}
	}
	return false
}

// artistMatchWeak reports whether the citation artist is contained in any of
// the candidate's artist names (case-insensitive, one direction only).
// Intentionally looser-but-directional than the tier-1 test; preserve the
// asymmetry.
func artistMatchWeak(citationArtist string, names []string) bool {
	artist := strings.ToLower(citationArtist)
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), artist) {
			return true
		}
	}
	return false
}

// titleMatch reports whether every word of the standard title appears as a
// substring of the track name, or the whole title does.
func titleMatch(standardTitle, trackName string) bool {
	title := strings.ToLower(standardTitle)
	track := strings.ToLower(trackName)

	if strings.Contains(track, title) {
		return true
	}

	words := strings.Fields(title)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		if !strings.Contains(track, word) {
			return false
		}
	}
	return true
}

// findTier1 returns the first strong-match candidate, or nil.
func findTier1(standardTitle string, c models.Citation, candidates []models.Candidate) *models.Candidate {
	for i := range candidates {
		cand := &candidates[i]
		if artistMatchStrong(c.Artist, cand.ArtistNames) && titleMatch(standardTitle, cand.TrackName) {
			return cand
		}
	}
	return nil
}

// proposalOrder returns the indexes of candidates to propose: tier-2
// qualifiers in result order, then the remaining candidates as tier-3
// fallbacks.
func proposalOrder(standardTitle string, c models.Citation, candidates []models.Candidate) []Proposal {
	proposed := make(map[int]bool, len(candidates))
	var order []Proposal

	for i, cand := range candidates {
		if titleMatch(standardTitle, cand.TrackName) && artistMatchWeak(c.Artist, cand.ArtistNames) {
			proposed[i] = true
			order = append(order, Proposal{StandardTitle: standardTitle, Citation: c, Candidate: cand, Tier: 2})
		}
	}
	for i, cand := range candidates {
		if !proposed[i] {
			order = append(order, Proposal{StandardTitle: standardTitle, Citation: c, Candidate: cand, Tier: 3})
		}
	}

	return order
}

// Resolve finds at most one catalog track for the citation.
//
// Tries the query sequence in order; the first tier-1 hit anywhere is
// accepted automatically and short-circuits everything. Otherwise weak
// proposals come from the first query that returned any candidates, and the
// decider arbitrates. The returned outcome is one of the models.Outcome*
// labels; a nil resolution means "no match", which is not an error.
func (r *Resolver) Resolve(ctx context.Context, standardTitle string, c models.Citation) (*models.Resolution, string) {
	var pending []models.Candidate

	for _, q := range queries(standardTitle, c) {
		candidates, err := r.catalog.SearchTracks(ctx, q, searchLimit)
		if err != nil {
			r.logger.Error("catalog search failed", "query", q, "error", err)
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		if strong := findTier1(standardTitle, c, candidates); strong != nil {
			r.logger.Info("auto-accepted strong match",
				"artist", c.Artist, "title", standardTitle, "track", strong.TrackName)
			return &models.Resolution{TrackID: strong.TrackID, Auto: true}, models.OutcomeAuto
		}

		if pending == nil {
			pending = candidates
		}
	}

	if pending == nil {
		return nil, models.OutcomeNoMatch
	}

	for _, proposal := range proposalOrder(standardTitle, c, pending) {
		decision, err := r.decider.Decide(ctx, proposal)
		if err != nil {
			r.logger.Warn("decision aborted", "artist", c.Artist, "error", err)
			return nil, models.OutcomeSkipped
		}

		switch decision {
		case DecisionAccept:
			r.logger.Info("user accepted match",
				"artist", c.Artist, "track", proposal.Candidate.TrackName, "tier", proposal.Tier)
			return &models.Resolution{TrackID: proposal.Candidate.TrackID, Auto: false}, models.OutcomeAccepted
		case DecisionSkip:
			return nil, models.OutcomeSkipped
		case DecisionReject:
			// Next tier-2/3 candidate in the same result list.
		}
	}

	return nil, models.OutcomeNoMatch
}
