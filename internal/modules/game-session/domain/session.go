package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eskrenkovic/movie-duel/internal/modules/core"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

const (
	DefaultMaxRoundsPerPlayer = 10
	DefaultWinningScore       = 20
	InitialScore              = 5
)

// MovieID accepts both numeric and string ids, TMDB ids arrive as numbers
// from the search endpoint.
type MovieID string

func (id *MovieID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = MovieID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("movie id must be a string or a number: %w", err)
	}
	*id = MovieID(n.String())

	return nil
}

type MovieNomination struct {
	Title     string  `json:"title"`
	MovieID   MovieID `json:"movieId"`
	PosterURL string  `json:"poster"`
	Score     int     `json:"score"`
}

// Target identifies the nomination an action applies to. Player is
// optional and disambiguates nominations sharing a title.
type Target struct {
	Title  string
	Player string
}

type Session struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`

	Players         []string                   `json:"players"`
	Nominations     map[string]MovieNomination `json:"nominations"`
	NominationOrder []string                   `json:"nominationOrder"`

	CurrentTurnIndex   int `json:"currentTurnIndex"`
	RoundActionCount   int `json:"roundActionCount"`
	MaxRoundsPerPlayer int `json:"maxRoundsPerPlayer"`
	WinningScore       int `json:"winningScore"`

	Status       Status     `json:"status"`
	TurnState    *TurnState `json:"turnState,omitempty"`
	Winner       string     `json:"winner,omitempty"`
	WinnerPlayer string     `json:"winnerPlayer,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSession(id string, owner string, now time.Time) Session {
	return Session{
		ID:                 id,
		Owner:              owner,
		Players:            []string{owner},
		Nominations:        make(map[string]MovieNomination),
		MaxRoundsPerPlayer: DefaultMaxRoundsPerPlayer,
		WinningScore:       DefaultWinningScore,
		Status:             StatusWaiting,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *Session) Join(player string) error {
	if s.Status != StatusWaiting {
		return fmt.Errorf("%w: cannot join a game that is %s", ErrInvalidState, s.Status)
	}

	if !core.Contains(s.Players, player) {
		s.Players = append(s.Players, player)
	}

	return nil
}

func (s *Session) Nominate(player string, title string, movieID MovieID, posterURL string) error {
	if s.Status != StatusWaiting {
		return fmt.Errorf("%w: cannot select a movie in a game that is %s", ErrInvalidState, s.Status)
	}

	if !core.Contains(s.Players, player) {
		return fmt.Errorf("%w: player '%s' has not joined this game", ErrInvalidArgument, player)
	}

	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: movie title is empty", ErrInvalidArgument)
	}

	if _, nominated := s.Nominations[player]; !nominated {
		s.NominationOrder = append(s.NominationOrder, player)
	}

	s.Nominations[player] = MovieNomination{
		Title:     title,
		MovieID:   movieID,
		PosterURL: posterURL,
		Score:     InitialScore,
	}

	if len(s.Nominations) == len(s.Players) {
		s.Status = StatusPlaying
		s.TurnState = newTurnState(s.Players[s.CurrentTurnIndex])
	}

	return nil
}

// PerformAction applies one forward or backward move for player. The
// action is parsed only after the status and turn checks, so a player
// acting out of turn always gets ErrTurnViolation. The returned turn
// state is nil when the move ended the game.
func (s *Session) PerformAction(player string, action Action, target Target) (*TurnState, error) {
	if s.Status != StatusPlaying {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidState, s.Status)
	}

	if s.TurnState == nil {
		s.TurnState = newTurnState(s.Players[s.CurrentTurnIndex])
	}

	if s.TurnState.ActivePlayer != player {
		return nil, fmt.Errorf("%w: it is %s's turn", ErrTurnViolation, s.TurnState.ActivePlayer)
	}

	action, err := ParseAction(string(action))
	if err != nil {
		return nil, err
	}

	nominator, err := s.resolveTarget(target)
	if err != nil {
		return nil, err
	}

	nomination := s.Nominations[nominator]

	switch action {
	case ActionForward:
		if s.TurnState.ForwardMovesRemaining <= 0 {
			return nil, fmt.Errorf("%w: forward", ErrActionExhausted)
		}
		nomination.Score++
		s.TurnState.ForwardMovesRemaining--
	case ActionBackward:
		if s.TurnState.BackwardMovesRemaining <= 0 {
			return nil, fmt.Errorf("%w: backward", ErrActionExhausted)
		}
		if nomination.Score > 0 {
			nomination.Score--
		}
		s.TurnState.BackwardMovesRemaining--
	}

	s.Nominations[nominator] = nomination
	s.RoundActionCount++

	if s.TurnState.done() {
		s.CurrentTurnIndex = (s.CurrentTurnIndex + 1) % len(s.Players)
		s.TurnState = newTurnState(s.Players[s.CurrentTurnIndex])
	}

	if s.shouldFinish() {
		s.finish()
		return nil, nil
	}

	turn := *s.TurnState
	return &turn, nil
}

// resolveTarget returns the player whose nomination the target names. When
// no player is given and several nominations share the title, the one
// nominated last wins.
func (s *Session) resolveTarget(target Target) (string, error) {
	if target.Player != "" {
		nomination, ok := s.Nominations[target.Player]
		if !ok {
			return "", fmt.Errorf("%w: player '%s' has no nomination", ErrNotFound, target.Player)
		}

		if target.Title != "" && nomination.Title != target.Title {
			return "", fmt.Errorf("%w: player '%s' did not nominate '%s'", ErrNotFound, target.Player, target.Title)
		}

		return target.Player, nil
	}

	for i := len(s.NominationOrder) - 1; i >= 0; i-- {
		player := s.NominationOrder[i]
		if s.Nominations[player].Title == target.Title {
			return player, nil
		}
	}

	return "", fmt.Errorf("%w: movie '%s'", ErrNotFound, target.Title)
}

func (s *Session) shouldFinish() bool {
	for _, nomination := range s.Nominations {
		if nomination.Score >= s.WinningScore {
			return true
		}
	}

	return s.RoundActionCount >= s.MaxRoundsPerPlayer*len(s.Players)
}

func (s *Session) finish() {
	s.Status = StatusFinished
	s.TurnState = nil

	best := -1
	for _, player := range s.NominationOrder {
		nomination := s.Nominations[player]
		if nomination.Score > best {
			best = nomination.Score
			s.Winner = nomination.Title
			s.WinnerPlayer = player
		}
	}
}

func (s *Session) CurrentPlayer() string {
	return s.Players[s.CurrentTurnIndex]
}

func (s *Session) CompletedRounds() int {
	return s.RoundActionCount / len(s.Players)
}

func (s Session) Clone() Session {
	clone := s

	clone.Players = append([]string(nil), s.Players...)
	clone.NominationOrder = append([]string(nil), s.NominationOrder...)

	clone.Nominations = make(map[string]MovieNomination, len(s.Nominations))
	for player, nomination := range s.Nominations {
		clone.Nominations[player] = nomination
	}

	if s.TurnState != nil {
		turn := *s.TurnState
		clone.TurnState = &turn
	}

	return clone
}
