package dat

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xxxsen/romkeep/internal/model"
)

// Parser reads Logiqx-format DAT files. Both <game> (No-Intro) and
// <machine> (MAME) element flavors are accepted.
type Parser struct{}

// NewParser builds a fresh DAT parser.
func NewParser() Parser {
	return Parser{}
}

// DataFile carries the parsed header plus the flattened ROM entries.
type DataFile struct {
	Header  Header
	Entries []model.DatEntry
}

// Header carries top-level metadata for the DAT.
type Header struct {
	Name        string
	Description string
	Version     string
}

// ParseFile opens and parses a DAT file.
func (p Parser) ParseFile(path string) (*DataFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dat %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse consumes DAT XML from the reader token by token, so multi
// hundred megabyte files never load fully into memory.
func (p Parser) Parse(r io.Reader) (*DataFile, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false // Logiqx DATs reference a DTD; relax strict parsing.

	var df DataFile
	var inHeader bool
	var headerField string
	var gameName string

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode dat: %w", err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "header":
				inHeader = true
			case "name", "description", "version":
				if inHeader {
					headerField = tok.Name.Local
				}
			case "game", "machine":
				gameName = attrValue(tok, "name")
			case "rom":
				if gameName == "" {
					continue
				}
				entry := romEntry(tok, gameName)
				if entry.RomName != "" {
					df.Entries = append(df.Entries, entry)
				}
			}
		case xml.EndElement:
			switch tok.Name.Local {
			case "header":
				inHeader = false
				headerField = ""
			case "name", "description", "version":
				headerField = ""
			case "game", "machine":
				gameName = ""
			}
		case xml.CharData:
			if !inHeader || headerField == "" {
				continue
			}
			text := strings.TrimSpace(string(tok))
			if text == "" {
				continue
			}
			switch headerField {
			case "name":
				df.Header.Name += text
			case "description":
				df.Header.Description += text
			case "version":
				df.Header.Version += text
			}
		}
	}
	if df.Header.Name == "" {
		return nil, fmt.Errorf("dat has no header name")
	}
	return &df, nil
}

// romEntry flattens one <rom> element. CRC32 values are normalized to
// upper case, MD5/SHA1 to lower, matching how hashes are stored.
func romEntry(tok xml.StartElement, gameName string) model.DatEntry {
	entry := model.DatEntry{GameName: gameName}
	for _, attr := range tok.Attr {
		switch attr.Name.Local {
		case "name":
			entry.RomName = attr.Value
		case "size":
			size, err := strconv.ParseInt(attr.Value, 10, 64)
			if err == nil {
				entry.Size = size
			}
		case "crc":
			entry.CRC32 = strings.ToUpper(attr.Value)
		case "md5":
			entry.MD5 = strings.ToLower(attr.Value)
		case "sha1":
			entry.SHA1 = strings.ToLower(attr.Value)
		case "status":
			entry.Status = attr.Value
		}
	}
	return entry
}

func attrValue(tok xml.StartElement, name string) string {
	for _, attr := range tok.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
