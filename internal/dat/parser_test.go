package dat

import (
	"strings"
	"testing"
)

const sampleNoIntroDat = `<?xml version="1.0"?>
<!DOCTYPE datafile PUBLIC "-//Logiqx//DTD ROM Management Datafile//EN" "http://www.logiqx.com/Dats/datafile.dtd">
<datafile>
	<header>
		<name>Nintendo - Game Boy</name>
		<description>Nintendo - Game Boy (Parent-Clone)</description>
		<version>20240101-000000</version>
		<author>No-Intro</author>
	</header>
	<game name="Tetris (World) (Rev 1)">
		<description>Tetris (World) (Rev 1)</description>
		<rom name="Tetris (World) (Rev 1).gb" size="32768" crc="46df91ad" md5="82B2A2E9A4B6E300EB4E3E2A3F6F5BAF" sha1="A12C5B55F50FC9E7CBFA0CFA8D0D2D30F1C5E0E6"/>
	</game>
	<game name="Bad Game (USA)">
		<description>Bad Game (USA)</description>
		<rom name="Bad Game (USA).gb" size="65536" crc="deadbeef" status="baddump"/>
	</game>
</datafile>`

const sampleMameDat = `<?xml version="1.0"?>
<datafile>
	<header>
		<name>MAME</name>
		<description>MAME 0.260</description>
		<version>0.260</version>
	</header>
	<machine name="puckman">
		<description>PuckMan (Japan set 1)</description>
		<rom name="pm1_prg1.6e" size="2048" crc="f36e88ab" sha1="813cecf44bf5464b1aed64b36f5047e4c79ba176"/>
		<rom name="pm1_prg2.6k" size="2048" crc="620da23c" sha1="cbc4b8140e90c5f66f4f5a52cadcaafac2ec7e9e"/>
	</machine>
</datafile>`

func TestParseNoIntro(t *testing.T) {
	parser := NewParser()
	df, err := parser.Parse(strings.NewReader(sampleNoIntroDat))
	if err != nil {
		t.Fatalf("expected parser to succeed, got error: %v", err)
	}

	if df.Header.Name != "Nintendo - Game Boy" {
		t.Fatalf("unexpected header name: %s", df.Header.Name)
	}
	if df.Header.Description != "Nintendo - Game Boy (Parent-Clone)" {
		t.Fatalf("unexpected header description: %s", df.Header.Description)
	}
	if df.Header.Version != "20240101-000000" {
		t.Fatalf("unexpected header version: %s", df.Header.Version)
	}

	if len(df.Entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(df.Entries))
	}
	first := df.Entries[0]
	if first.GameName != "Tetris (World) (Rev 1)" || first.RomName != "Tetris (World) (Rev 1).gb" {
		t.Fatalf("unexpected entry names: %+v", first)
	}
	if first.Size != 32768 {
		t.Fatalf("unexpected entry size: %d", first.Size)
	}
	if first.CRC32 != "46DF91AD" {
		t.Fatalf("crc should be upper case: %s", first.CRC32)
	}
	if first.MD5 != "82b2a2e9a4b6e300eb4e3e2a3f6f5baf" {
		t.Fatalf("md5 should be lower case: %s", first.MD5)
	}
	if first.SHA1 != "a12c5b55f50fc9e7cbfa0cfa8d0d2d30f1c5e0e6" {
		t.Fatalf("sha1 should be lower case: %s", first.SHA1)
	}

	second := df.Entries[1]
	if second.Status != "baddump" {
		t.Fatalf("unexpected status: %s", second.Status)
	}
	if second.MD5 != "" || second.SHA1 != "" {
		t.Fatalf("missing hashes should stay empty: %+v", second)
	}
}

func TestParseMameMachines(t *testing.T) {
	parser := NewParser()
	df, err := parser.Parse(strings.NewReader(sampleMameDat))
	if err != nil {
		t.Fatalf("expected parser to succeed, got error: %v", err)
	}
	if len(df.Entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(df.Entries))
	}
	for _, entry := range df.Entries {
		if entry.GameName != "puckman" {
			t.Fatalf("unexpected game name: %s", entry.GameName)
		}
	}
	if df.Entries[0].CRC32 != "F36E88AB" {
		t.Fatalf("unexpected crc: %s", df.Entries[0].CRC32)
	}
}

func TestParseMissingHeader(t *testing.T) {
	parser := NewParser()
	if _, err := parser.Parse(strings.NewReader(`<datafile><game name="x"><rom name="x.bin"/></game></datafile>`)); err == nil {
		t.Fatalf("expected error for dat without header")
	}
}
