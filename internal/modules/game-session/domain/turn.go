package domain

import (
	"fmt"
	"strings"
)

const (
	forwardMovesPerTurn  = 2
	backwardMovesPerTurn = 1
)

type Action string

const (
	ActionForward  Action = "forward"
	ActionBackward Action = "backward"
)

var actionAliases = map[string]Action{
	"forward":  ActionForward,
	"boost":    ActionForward,
	"backward": ActionBackward,
	"reduce":   ActionBackward,
}

func ParseAction(raw string) (Action, error) {
	action, ok := actionAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: unrecognized action '%s'", ErrInvalidArgument, raw)
	}

	return action, nil
}

type TurnState struct {
	ForwardMovesRemaining  int    `json:"forwardMovesRemaining"`
	BackwardMovesRemaining int    `json:"backwardMovesRemaining"`
	ActivePlayer           string `json:"activePlayer"`
}

// newTurnState is the only place a turn is started, both when the game
// begins and when the turn passes to the next player.
func newTurnState(player string) *TurnState {
	return &TurnState{
		ForwardMovesRemaining:  forwardMovesPerTurn,
		BackwardMovesRemaining: backwardMovesPerTurn,
		ActivePlayer:           player,
	}
}

func (t TurnState) done() bool {
	return t.ForwardMovesRemaining == 0 && t.BackwardMovesRemaining == 0
}
