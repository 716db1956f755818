package pandascore

// Wire types for the PandaScore /matches endpoint. Only the fields the
// mapper consumes are declared; everything else is ignored on decode.

type matchResponse struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	ScheduledAt string            `json:"scheduled_at"`
	BeginAt     string            `json:"begin_at"`
	Opponents   []opponentWrapper `json:"opponents"`
	Results     []resultResponse  `json:"results"`
	Videogame   videogameResponse `json:"videogame"`
}

type opponentWrapper struct {
	Opponent teamResponse `json:"opponent"`
}

type teamResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Acronym  string `json:"acronym"`
	ImageURL string `json:"image_url"`
}

type resultResponse struct {
	TeamID int `json:"team_id"`
	Score  int `json:"score"`
}

type videogameResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
