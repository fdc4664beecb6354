package igdb

import (
	"fmt"
	"time"
)

// Game is one record from the IGDB /games endpoint.
type Game struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	Summary            string            `json:"summary"`
	Storyline          string            `json:"storyline"`
	AggregatedRating   float64           `json:"aggregated_rating"`
	FirstReleaseDate   int64             `json:"first_release_date"`
	Genres             []NamedItem       `json:"genres"`
	Themes             []NamedItem       `json:"themes"`
	GameModes          []NamedItem       `json:"game_modes"`
	PlayerPerspectives []NamedItem       `json:"player_perspectives"`
	Cover              *Image            `json:"cover"`
	Screenshots        []Image           `json:"screenshots"`
	InvolvedCompanies  []InvolvedCompany `json:"involved_companies"`
	Franchises         []NamedItem       `json:"franchises"`
}

// NamedItem is the {id, name} shape IGDB uses for reference lists.
type NamedItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Image carries the image_id used to build CDN URLs.
type Image struct {
	ID      int64  `json:"id"`
	ImageID string `json:"image_id"`
}

// InvolvedCompany links a company with its role flags.
type InvolvedCompany struct {
	Company   *NamedItem `json:"company"`
	Developer bool       `json:"developer"`
	Publisher bool       `json:"publisher"`
}

// Developer returns the first company flagged as developer.
func (g *Game) Developer() string {
	return g.companyWithRole(func(c InvolvedCompany) bool { return c.Developer })
}

// Publisher returns the first company flagged as publisher.
func (g *Game) Publisher() string {
	return g.companyWithRole(func(c InvolvedCompany) bool { return c.Publisher })
}

func (g *Game) companyWithRole(match func(InvolvedCompany) bool) string {
	for _, c := range g.InvolvedCompanies {
		if match(c) && c.Company != nil {
			return c.Company.Name
		}
	}
	return ""
}

// GenreNames flattens the genre list.
func (g *Game) GenreNames() []string {
	return itemNames(g.Genres)
}

// ThemeNames flattens the theme list.
func (g *Game) ThemeNames() []string {
	return itemNames(g.Themes)
}

func itemNames(items []NamedItem) []string {
	var names []string
	for _, item := range items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names
}

// Description joins summary and storyline.
func (g *Game) Description() string {
	switch {
	case g.Summary != "" && g.Storyline != "":
		return g.Summary + "\n\n" + g.Storyline
	case g.Summary != "":
		return g.Summary
	default:
		return g.Storyline
	}
}

// Rating normalizes the 0-100 aggregated rating to a 0-10 scale.
func (g *Game) Rating() float64 {
	return g.AggregatedRating / 10
}

// ReleaseDate formats the unix release timestamp as YYYY-MM-DD.
func (g *Game) ReleaseDate() string {
	if g.FirstReleaseDate == 0 {
		return ""
	}
	return time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006-01-02")
}

// CoverURL builds the CDN URL for the cover, "" when there is none.
func (g *Game) CoverURL() string {
	if g.Cover == nil || g.Cover.ImageID == "" {
		return ""
	}
	return imageURL("t_cover_big", g.Cover.ImageID)
}

// ScreenshotURLs builds CDN URLs for every screenshot.
func (g *Game) ScreenshotURLs() []string {
	var urls []string
	for _, shot := range g.Screenshots {
		if shot.ImageID != "" {
			urls = append(urls, imageURL("t_screenshot_big", shot.ImageID))
		}
	}
	return urls
}

func imageURL(size, imageID string) string {
	return fmt.Sprintf("https://images.igdb.com/igdb/image/upload/%s/%s.jpg", size, imageID)
}
