package metadata

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GamelistDocument is an EmulationStation gamelist.xml for one platform.
type GamelistDocument struct {
	Provider ProviderInfo
	Games    []GamelistEntry
}

// ProviderInfo names the tool that produced the file.
type ProviderInfo struct {
	System   string
	Software string
	Database string
	Web      string
}

// GamelistEntry carries the per-game fields the catalog exports. The
// cheevos pair links the entry to its RetroAchievements game.
type GamelistEntry struct {
	Path        string   `xml:"path"`
	Name        string   `xml:"name"`
	Description string   `xml:"desc"`
	Image       string   `xml:"image"`
	Developer   string   `xml:"developer"`
	Publisher   string   `xml:"publisher"`
	Genres      []string `xml:"genre"`
	ReleaseDate string   `xml:"releasedate"`
	Rating      string   `xml:"rating"`
	SortName    string   `xml:"sortname"`
	MD5         string   `xml:"md5"`
	CheevosID   string   `xml:"cheevosId"`
	CheevosHash string   `xml:"cheevosHash"`
}

// some frontends emit <System>, others <system>
type providerXML struct {
	SystemUpper string `xml:"System"`
	SystemLower string `xml:"system"`
	Software    string `xml:"software"`
	Database    string `xml:"database"`
	Web         string `xml:"web"`
}

// ParseGamelistFile reads a gamelist.xml, trimming surrounding
// whitespace on every field.
func ParseGamelistFile(path string) (*GamelistDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gamelist %s: %w", path, err)
	}
	defer f.Close()

	var doc struct {
		Provider providerXML     `xml:"provider"`
		Games    []GamelistEntry `xml:"game"`
	}
	decoder := xml.NewDecoder(f)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gamelist %s: %w", path, err)
	}

	for i := range doc.Games {
		trimEntry(&doc.Games[i])
	}

	systemValue := strings.TrimSpace(doc.Provider.SystemUpper)
	if systemValue == "" {
		systemValue = strings.TrimSpace(doc.Provider.SystemLower)
	}
	return &GamelistDocument{
		Provider: ProviderInfo{
			System:   strings.ToLower(systemValue),
			Software: strings.TrimSpace(doc.Provider.Software),
			Database: strings.TrimSpace(doc.Provider.Database),
			Web:      strings.TrimSpace(doc.Provider.Web),
		},
		Games: doc.Games,
	}, nil
}

func trimEntry(entry *GamelistEntry) {
	entry.Path = strings.TrimSpace(entry.Path)
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Description = strings.TrimSpace(entry.Description)
	entry.Image = strings.TrimSpace(entry.Image)
	entry.Developer = strings.TrimSpace(entry.Developer)
	entry.Publisher = strings.TrimSpace(entry.Publisher)
	entry.ReleaseDate = strings.TrimSpace(entry.ReleaseDate)
	entry.Rating = strings.TrimSpace(entry.Rating)
	entry.SortName = strings.TrimSpace(entry.SortName)
	entry.MD5 = strings.TrimSpace(entry.MD5)
	entry.CheevosID = strings.TrimSpace(entry.CheevosID)
	entry.CheevosHash = strings.TrimSpace(entry.CheevosHash)
	for j := range entry.Genres {
		entry.Genres[j] = strings.TrimSpace(entry.Genres[j])
	}
}

// WriteGamelistFile serialises the document, creating the destination
// directory as needed. Empty fields are omitted.
func WriteGamelistFile(path string, doc *GamelistDocument) error {
	if doc == nil {
		return fmt.Errorf("gamelist document is nil")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("invalid gamelist output path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure gamelist dir %s: %w", path, err)
	}

	output := gamelistOutput{
		Games: make([]gamelistOutputEntry, 0, len(doc.Games)),
	}
	if provider := doc.providerOutput(); provider != nil {
		output.Provider = provider
	}
	for _, game := range doc.Games {
		trimEntry(&game)
		output.Games = append(output.Games, gamelistOutputEntry{
			Path:        game.Path,
			Name:        game.Name,
			Description: game.Description,
			Image:       game.Image,
			Developer:   game.Developer,
			Publisher:   game.Publisher,
			Genres:      nonEmpty(game.Genres),
			ReleaseDate: game.ReleaseDate,
			Rating:      game.Rating,
			SortName:    game.SortName,
			MD5:         game.MD5,
			CheevosID:   game.CheevosID,
			CheevosHash: game.CheevosHash,
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gamelist %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}

	encoder := xml.NewEncoder(f)
	encoder.Indent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode gamelist xml: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return fmt.Errorf("flush gamelist xml: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("terminate gamelist xml: %w", err)
	}
	return nil
}

func (doc *GamelistDocument) providerOutput() *providerOutput {
	system := strings.TrimSpace(doc.Provider.System)
	software := strings.TrimSpace(doc.Provider.Software)
	database := strings.TrimSpace(doc.Provider.Database)
	web := strings.TrimSpace(doc.Provider.Web)
	if system == "" && software == "" && database == "" && web == "" {
		return nil
	}
	return &providerOutput{
		System:   system,
		Software: software,
		Database: database,
		Web:      web,
	}
}

type gamelistOutput struct {
	XMLName  xml.Name              `xml:"gameList"`
	Provider *providerOutput       `xml:"provider,omitempty"`
	Games    []gamelistOutputEntry `xml:"game"`
}

type providerOutput struct {
	System   string `xml:"system,omitempty"`
	Software string `xml:"software,omitempty"`
	Database string `xml:"database,omitempty"`
	Web      string `xml:"web,omitempty"`
}

type gamelistOutputEntry struct {
	XMLName     xml.Name `xml:"game"`
	Path        string   `xml:"path,omitempty"`
	Name        string   `xml:"name,omitempty"`
	Description string   `xml:"desc,omitempty"`
	Image       string   `xml:"image,omitempty"`
	Developer   string   `xml:"developer,omitempty"`
	Publisher   string   `xml:"publisher,omitempty"`
	Genres      []string `xml:"genre,omitempty"`
	ReleaseDate string   `xml:"releasedate,omitempty"`
	Rating      string   `xml:"rating,omitempty"`
	SortName    string   `xml:"sortname,omitempty"`
	MD5         string   `xml:"md5,omitempty"`
	CheevosID   string   `xml:"cheevosId,omitempty"`
	CheevosHash string   `xml:"cheevosHash,omitempty"`
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
