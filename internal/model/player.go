package model

// Player is a participant known to matchmaking.
type Player struct {
	ID string
}

// ClientPlayer is the player view sent to clients in game state pushes.
type ClientPlayer struct {
	ID       string `json:"id"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"`
	IsEngine bool   `json:"isEngine"`
}
