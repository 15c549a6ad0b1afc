package domain

type SessionView struct {
	ID                 string                     `json:"id"`
	Owner              string                     `json:"owner"`
	Players            []string                   `json:"players"`
	Nominations        map[string]MovieNomination `json:"nominations"`
	CurrentPlayer      string                     `json:"currentPlayer"`
	CompletedRounds    int                        `json:"completedRounds"`
	MaxRoundsPerPlayer int                        `json:"maxRoundsPerPlayer"`
	WinningScore       int                        `json:"winningScore"`
	Status             Status                     `json:"status"`
	TurnState          *TurnState                 `json:"turnState,omitempty"`
	Winner             string                     `json:"winner,omitempty"`
}

func (s Session) View() SessionView {
	c := s.Clone()

	view := SessionView{
		ID:                 c.ID,
		Owner:              c.Owner,
		Players:            c.Players,
		Nominations:        c.Nominations,
		CurrentPlayer:      c.CurrentPlayer(),
		CompletedRounds:    c.CompletedRounds(),
		MaxRoundsPerPlayer: c.MaxRoundsPerPlayer,
		WinningScore:       c.WinningScore,
		Status:             c.Status,
		TurnState:          c.TurnState,
	}

	if c.Status == StatusFinished {
		view.Winner = c.Winner
	}

	return view
}
