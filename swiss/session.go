/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sync"
	"time"

	"github.com/mikeb26/swisstd/internal/logging"
)

// State is the round controller state.
type State int

const (
	StateReady State = iota
	StatePairingGenerated
	StateResultsPending
	StateApplied
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StatePairingGenerated:
		return "PAIRING_GENERATED"
	case StateResultsPending:
		return "RESULTS_PENDING"
	case StateApplied:
		return "APPLIED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "?"
	}
}

// Config holds the per-session engine policy. It is carried in snapshots.
type Config struct {
	// MaxRounds caps the number of rounds; 0 means no cap.
	MaxRounds  int              `json:"maxRounds,omitempty"`
	ByePolicy  ByePolicy        `json:"byePolicy"`
	FirstRound FirstRoundMethod `json:"firstRound"`
	// RandomSeed feeds FirstRoundRandom.
	RandomSeed int64 `json:"randomSeed,omitempty"`
	// StopWhenGroupsExhausted terminates right after a round is applied if
	// no same-score pair is left unplayed, instead of continuing to pair
	// across groups until no pairing at all is possible.
	StopWhenGroupsExhausted bool `json:"stopWhenGroupsExhausted,omitempty"`
}

// Round is one generation of pairings. Results and Points are filled in
// once the round is applied.
type Round struct {
	Number              int                      `json:"roundNumber"`
	Pairings            []Pairing                `json:"pairings"`
	Bye                 *CompetitorID            `json:"byeRecipient,omitempty"`
	Unpaired            []CompetitorID           `json:"unpaired,omitempty"`
	HasSamePointPairing bool                     `json:"hasSamePointPairing"`
	Results             []MatchResult            `json:"results,omitempty"`
	Points              map[CompetitorID]float64 `json:"points,omitempty"`
}

func (r Round) clone() Round {
	out := r
	out.Pairings = append([]Pairing(nil), r.Pairings...)
	out.Unpaired = append([]CompetitorID(nil), r.Unpaired...)
	out.Results = append([]MatchResult(nil), r.Results...)
	if r.Bye != nil {
		bye := *r.Bye
		out.Bye = &bye
	}
	if r.Points != nil {
		out.Points = make(map[CompetitorID]float64, len(r.Points))
		for k, v := range r.Points {
			out.Points[k] = v
		}
	}
	return out
}

type Option func(*Session)

func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is one tournament: its competitors, pairing ledger and round
// history. All methods are safe for concurrent use; mutation is serialized
// so that round n+1 always sees every change committed in round n.
type Session struct {
	mu sync.Mutex

	id        string
	cfg       Config
	standings *Standings
	ledger    *Ledger
	rounds    []Round

	current     *Round
	staged      map[PairKey]MatchResult
	state       State
	terminalErr error

	log logging.Logger
	now func() time.Time
}

func NewSession(id string, seeds []Seed, cfg Config, opts ...Option) (*Session, error) {
	standings, err := NewStandings(seeds)
	if err != nil {
		return nil, err
	}

	return newSession(id, standings, NewLedger(), nil, cfg, opts), nil
}

func newSession(id string, standings *Standings, ledger *Ledger, rounds []Round,
	cfg Config, opts []Option) *Session {

	s := &Session{
		id:        id,
		cfg:       cfg,
		standings: standings,
		ledger:    ledger,
		rounds:    rounds,
		state:     StateReady,
		log:       logging.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", id)

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns why the session terminated, or nil while it is still live.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminalErr
}

// NextRoundNumber is the number the next issued round will carry.
func (s *Session) NextRoundNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rounds) + 1
}

// Ranking returns the current standings in ranking order.
func (s *Session) Ranking() []Competitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standings.CurrentRanking()
}

func (s *Session) Competitor(id CompetitorID) (Competitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standings.Get(id)
}

func (s *Session) HasPlayed(a, b CompetitorID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.HasPlayed(a, b)
}

// Rounds returns every applied round, oldest first.
func (s *Session) Rounds() []Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Round, 0, len(s.rounds))
	for _, r := range s.rounds {
		out = append(out, r.clone())
	}
	return out
}

// CurrentRound returns the issued but not yet applied round, if any.
func (s *Session) CurrentRound() (Round, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Round{}, false
	}
	return s.current.clone(), true
}

// NextRound ranks the competitors, assigns the bye and pairs the rest. When
// nothing can be paired and no two competitors sharing a score are left
// unplayed, the session terminates with ErrNoLegalPairing. A round may carry
// only a bye; it is committed with an empty result set. When the round cap
// is hit ErrRoundCapExceeded is returned.
func (s *Session) NextRound() (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return Round{}, s.terminalErr
	}
	if s.state != StateReady {
		return Round{}, fmt.Errorf("%w: next round requested in %v", ErrInvalidState,
			s.state)
	}

	if s.cfg.MaxRounds > 0 && len(s.rounds) >= s.cfg.MaxRounds {
		s.log.Warn("swiss.next: round cap reached", "rounds", len(s.rounds),
			"maxRounds", s.cfg.MaxRounds)
		s.terminate(ErrRoundCapExceeded)
		return Round{}, s.terminalErr
	}

	number := len(s.rounds) + 1
	ranking := s.standings.CurrentRanking()
	pool, bye := AssignBye(ranking, s.cfg.ByePolicy)

	var set PairingSet
	var err error
	if number == 1 && s.ledger.Len() == 0 {
		set, err = firstRoundPairings(pool, s.cfg.FirstRound, s.cfg.RandomSeed)
	} else {
		set, err = GeneratePairings(pool, s.ledger)
	}
	if err != nil {
		return Round{}, fmt.Errorf("swiss.next: round %v: %w", number, err)
	}

	// With nothing to pair but an unplayed same-score pair left, that pair
	// includes the bye recipient; a bye-only round moves the point groups.
	if len(set.Pairings) == 0 && !CanContinue(ranking, s.ledger) {
		s.log.Info("swiss.next: no legal pairing remains", "round", number)
		s.terminate(ErrNoLegalPairing)
		return Round{}, s.terminalErr
	}

	round := &Round{
		Number:              number,
		Pairings:            set.Pairings,
		Unpaired:            set.Unpaired,
		HasSamePointPairing: set.HasSamePointPairing,
	}
	if bye != nil {
		id := bye.ID
		round.Bye = &id
	}
	s.current = round
	s.staged = make(map[PairKey]MatchResult, len(round.Pairings))
	s.state = StatePairingGenerated

	s.log.Info("swiss.next: issued round", "round", number,
		"pairings", len(round.Pairings), "bye", bye != nil,
		"unpaired", len(round.Unpaired))

	return round.clone(), nil
}

// ReportResult stages the result of one issued pairing. A result for a pair
// not open in this round, or one already reported, is rejected with
// ErrInvalidResult and the round stays pending.
func (s *Session) ReportResult(r MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePairingGenerated && s.state != StateResultsPending {
		return fmt.Errorf("%w: result reported in %v", ErrInvalidState, s.state)
	}
	norm, err := s.checkResult(r, s.staged)
	if err != nil {
		s.log.Warn("swiss.report: rejected result", "a", r.A, "b", r.B,
			"error", err)
		return err
	}
	s.staged[norm.key()] = norm
	s.state = StateResultsPending

	return nil
}

// Commit applies every staged result plus the bye credit as one batch.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked()
}

// SubmitResults reports and commits a whole round at once. The batch must
// cover exactly the pairings still open; if any result is rejected nothing
// is staged.
func (s *Session) SubmitResults(results []MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePairingGenerated && s.state != StateResultsPending {
		return fmt.Errorf("%w: results submitted in %v", ErrInvalidState, s.state)
	}

	batch := make(map[PairKey]MatchResult, len(s.staged)+len(results))
	for k, v := range s.staged {
		batch[k] = v
	}
	for _, r := range results {
		norm, err := s.checkResult(r, batch)
		if err != nil {
			s.log.Warn("swiss.submit: rejected batch", "round", s.current.Number,
				"error", err)
			return err
		}
		batch[norm.key()] = norm
	}
	if len(batch) != len(s.current.Pairings) {
		return fmt.Errorf("%w: %v of %v pairings reported", ErrResultsIncomplete,
			len(batch), len(s.current.Pairings))
	}

	s.staged = batch
	s.state = StateResultsPending

	return s.commitLocked()
}

// Abandon drops the issued round. The ledger and standings are untouched
// and the same round can be generated again from READY.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePairingGenerated && s.state != StateResultsPending {
		return fmt.Errorf("%w: abandon in %v", ErrInvalidState, s.state)
	}
	s.log.Info("swiss.abandon: dropped round", "round", s.current.Number)
	s.current = nil
	s.staged = nil
	s.state = StateReady

	return nil
}

func (s *Session) checkResult(r MatchResult,
	staged map[PairKey]MatchResult) (MatchResult, error) {

	if _, ok := s.standings.Get(r.A); !ok {
		return MatchResult{}, fmt.Errorf("%w: %w %v", ErrInvalidResult,
			ErrUnknownCompetitor, r.A)
	}
	if _, ok := s.standings.Get(r.B); !ok {
		return MatchResult{}, fmt.Errorf("%w: %w %v", ErrInvalidResult,
			ErrUnknownCompetitor, r.B)
	}
	if _, _, err := r.Outcome.points(); err != nil {
		return MatchResult{}, err
	}

	key := MakePairKey(r.A, r.B)
	for _, p := range s.current.Pairings {
		if p.Key() != key {
			continue
		}
		if _, dup := staged[key]; dup {
			return MatchResult{}, fmt.Errorf("%w: %v vs %v already reported",
				ErrInvalidResult, r.A, r.B)
		}
		return r.normalized(p), nil
	}

	return MatchResult{}, fmt.Errorf("%w: %v vs %v is not paired in round %v",
		ErrInvalidResult, r.A, r.B, s.current.Number)
}

func (s *Session) commitLocked() error {
	if s.state != StateResultsPending {
		return fmt.Errorf("%w: commit in %v", ErrInvalidState, s.state)
	}
	round := s.current
	if len(s.staged) != len(round.Pairings) {
		return fmt.Errorf("%w: %v of %v pairings reported", ErrResultsIncomplete,
			len(s.staged), len(round.Pairings))
	}

	// apply to copies so a failure leaves the session untouched
	standings := s.standings.clone()
	ledger := s.ledger.Clone()
	before := make(map[CompetitorID]float64, standings.Len())
	for _, c := range standings.competitors {
		before[c.ID] = c.Score
	}

	results := make([]MatchResult, 0, len(round.Pairings))
	for _, p := range round.Pairings {
		res := s.staged[p.Key()]
		if err := standings.ApplyResult(res); err != nil {
			return fmt.Errorf("swiss.commit: round %v: %w", round.Number, err)
		}
		if err := ledger.Record(p.A, p.B); err != nil {
			return fmt.Errorf("swiss.commit: round %v: %w", round.Number, err)
		}
		results = append(results, res)
	}
	if round.Bye != nil {
		if err := standings.creditBye(*round.Bye); err != nil {
			return fmt.Errorf("swiss.commit: round %v: %w", round.Number, err)
		}
	}

	points := make(map[CompetitorID]float64)
	for _, c := range standings.competitors {
		if delta := c.Score - before[c.ID]; delta != 0 {
			points[c.ID] = delta
		}
	}

	s.state = StateApplied
	s.standings = standings
	s.ledger = ledger
	round.Results = results
	round.Points = points
	s.rounds = append(s.rounds, *round)
	s.current = nil
	s.staged = nil

	s.log.Info("swiss.commit: applied round", "round", round.Number,
		"results", len(results), "ledger", ledger.Len())

	if s.cfg.StopWhenGroupsExhausted &&
		!CanContinue(standings.competitors, ledger) {
		s.log.Info("swiss.commit: every point group is exhausted",
			"round", round.Number)
		s.terminate(ErrNoLegalPairing)
		return nil
	}
	s.state = StateReady

	return nil
}

func (s *Session) terminate(reason error) {
	s.state = StateTerminated
	s.terminalErr = reason
	s.current = nil
	s.staged = nil
}

func (r MatchResult) key() PairKey {
	return MakePairKey(r.A, r.B)
}

// Placement is a final position in the standings.
type Placement struct {
	Position   int
	Competitor Competitor
}

// Placements ranks every competitor 1..n by (score desc, originalOrder asc).
// Equal scores keep distinct positions in seed order.
func (s *Session) Placements() []Placement {
	ranking := s.Ranking()
	out := make([]Placement, 0, len(ranking))
	for i, c := range ranking {
		out = append(out, Placement{Position: i + 1, Competitor: c})
	}
	return out
}
