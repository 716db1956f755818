package pandascore

const (
	providerName   = "pandascore"
	defaultBaseURL = "https://api.pandascore.co"
	defaultOnePage = 50
)

// videogameSlugs maps canonical game names to PandaScore videogame
// filter slugs.
var videogameSlugs = map[string]string{
	"lol":      "league-of-legends",
	"csgo":     "cs-go",
	"dota2":    "dota-2",
	"valorant": "valorant",
}
