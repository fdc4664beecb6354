package launchbox

import (
	"archive/zip"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
)

const (
	// MetadataURL is the LaunchBox community database export.
	MetadataURL = "https://gamesdb.launchbox-app.com/Metadata.zip"

	// ImageBaseURL prefixes every image file name from the mirror.
	ImageBaseURL = "https://images.launchbox-app.com/"
)

// ImageURL builds the public URL for a mirrored image file name.
func ImageURL(fileName string) string {
	return ImageBaseURL + fileName
}

// Download fetches Metadata.zip and extracts Metadata.xml into dir,
// returning the extracted file's path. The zip is removed afterwards.
func Download(ctx context.Context, dir string, progress model.ProgressFunc) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure launchbox dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, MetadataURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "romkeep/enrich")

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download launchbox metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("download launchbox metadata: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	zipPath := filepath.Join(dir, "Metadata.zip")
	if err := writeWithProgress(zipPath, resp.Body, resp.ContentLength, progress); err != nil {
		return "", err
	}
	defer os.Remove(zipPath)

	xmlPath := filepath.Join(dir, "Metadata.xml")
	if err := extractMetadataXML(zipPath, xmlPath); err != nil {
		return "", err
	}
	return xmlPath, nil
}

func writeWithProgress(path string, body io.Reader, total int64, progress model.ProgressFunc) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	buf := make([]byte, 256*1024)
	var written int64
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write %s: %w", path, werr)
			}
			written += int64(n)
			progress.Report(model.ScanProgress{
				Total:       total,
				Current:     written,
				CurrentItem: "downloading launchbox metadata",
			})
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read download stream: %w", err)
		}
	}
}

func extractMetadataXML(zipPath, xmlPath string) error {
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open launchbox zip: %w", err)
	}
	defer archive.Close()

	for _, entry := range archive.File {
		if entry.Name != "Metadata.xml" && !strings.HasSuffix(entry.Name, "/Metadata.xml") {
			continue
		}
		in, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		defer in.Close()

		out, err := os.Create(xmlPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", xmlPath, err)
		}
		defer out.Close()
		if _, err := io.Copy(out, in); err != nil {
			return fmt.Errorf("extract Metadata.xml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("Metadata.xml not found in launchbox zip")
}

// ParseMetadata streams Metadata.xml and returns game and image rows
// ready for the mirror tables. The file is hundreds of megabytes, so it
// is never loaded whole.
func ParseMetadata(path string) ([]db.LaunchBoxGame, []db.LaunchBoxImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseMetadata(f)
}

func parseMetadata(r io.Reader) ([]db.LaunchBoxGame, []db.LaunchBoxImage, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false

	var games []db.LaunchBoxGame
	var images []db.LaunchBoxImage

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decode launchbox metadata: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Game":
			var rec gameElement
			if err := decoder.DecodeElement(&rec, &start); err != nil {
				return nil, nil, fmt.Errorf("decode game element: %w", err)
			}
			if rec.Name == "" || rec.DatabaseID == 0 {
				continue
			}
			games = append(games, db.LaunchBoxGame{
				DatabaseID:      rec.DatabaseID,
				Name:            rec.Name,
				NormalizedName:  NormalizeName(rec.Name),
				Platform:        rec.Platform,
				Description:     rec.Overview,
				Developer:       rec.Developer,
				Publisher:       rec.Publisher,
				Genres:          genresJSON(rec.Genres),
				ReleaseDate:     rec.ReleaseDate,
				CommunityRating: rec.CommunityRating,
			})
		case "GameImage":
			var rec imageElement
			if err := decoder.DecodeElement(&rec, &start); err != nil {
				return nil, nil, fmt.Errorf("decode image element: %w", err)
			}
			if rec.DatabaseID == 0 || rec.FileName == "" {
				continue
			}
			images = append(images, db.LaunchBoxImage{
				DatabaseID: rec.DatabaseID,
				FileName:   rec.FileName,
				ImageType:  rec.Type,
				Region:     rec.Region,
			})
		}
	}
	return games, images, nil
}

type gameElement struct {
	Name            string  `xml:"Name"`
	Platform        string  `xml:"Platform"`
	Overview        string  `xml:"Overview"`
	Developer       string  `xml:"Developer"`
	Publisher       string  `xml:"Publisher"`
	Genres          string  `xml:"Genres"`
	ReleaseDate     string  `xml:"ReleaseDate"`
	CommunityRating float64 `xml:"CommunityRating"`
	DatabaseID      int64   `xml:"DatabaseID"`
}

type imageElement struct {
	DatabaseID int64  `xml:"DatabaseID"`
	FileName   string `xml:"FileName"`
	Type       string `xml:"Type"`
	Region     string `xml:"Region"`
}

// genresJSON turns LaunchBox's semicolon list into the stored JSON form.
func genresJSON(raw string) string {
	var parts []string
	for _, piece := range strings.Split(raw, ";") {
		if piece = strings.TrimSpace(piece); piece != "" {
			parts = append(parts, piece)
		}
	}
	if len(parts) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(parts)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
