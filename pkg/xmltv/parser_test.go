package xmltv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dsnet/compress/bzip2"
)

const sampleXMLTV = `<?xml version="1.0" encoding="UTF-8"?>
<tv>
  <channel id="bbc1.uk">
    <display-name>BBC One</display-name>
    <icon src="http://example.com/bbc1.png"/>
  </channel>
  <programme start="20260115200000 +0000" stop="20260115220000 +0000" channel="bbc1.uk">
    <title>Premier League: Arsenal v Chelsea</title>
    <sub-title>Matchday 22</sub-title>
    <desc>Live coverage from the Emirates Stadium.</desc>
    <category>Sport</category>
  </programme>
  <programme start="20260115220000 +0000" stop="20260115230000 +0000" channel="bbc1.uk">
    <title>Match of the Day</title>
  </programme>
</tv>`

func TestParser_ChannelsAndProgrammes(t *testing.T) {
	var channels []*Channel
	var programmes []*Programme

	p := &Parser{
		OnChannel: func(c *Channel) error {
			channels = append(channels, c)
			return nil
		},
		OnProgramme: func(prog *Programme) error {
			programmes = append(programmes, prog)
			return nil
		},
	}

	if err := p.Parse(strings.NewReader(sampleXMLTV)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
	if channels[0].ID != "bbc1.uk" {
		t.Errorf("expected channel id 'bbc1.uk', got '%s'", channels[0].ID)
	}
	if channels[0].DisplayName != "BBC One" {
		t.Errorf("expected display name 'BBC One', got '%s'", channels[0].DisplayName)
	}

	if len(programmes) != 2 {
		t.Fatalf("expected 2 programmes, got %d", len(programmes))
	}

	prog := programmes[0]
	if prog.Channel != "bbc1.uk" {
		t.Errorf("expected channel 'bbc1.uk', got '%s'", prog.Channel)
	}
	if prog.Title != "Premier League: Arsenal v Chelsea" {
		t.Errorf("unexpected title '%s'", prog.Title)
	}
	if prog.Description != "Live coverage from the Emirates Stadium." {
		t.Errorf("unexpected description '%s'", prog.Description)
	}

	wantStart := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)
	if !prog.Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, prog.Start)
	}
	wantStop := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	if !prog.Stop.Equal(wantStop) {
		t.Errorf("expected stop %v, got %v", wantStop, prog.Stop)
	}
}

func TestParser_TimeFormats(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"20260115200000 +0000", false},
		{"20260115200000", false},
		{"202601152000", false},
		{"", true},
		{"yesterday", true},
	}

	for _, tt := range tests {
		_, err := parseXMLTVTime(tt.input)
		if tt.wantErr && err == nil {
			t.Errorf("expected error for %q", tt.input)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("unexpected error for %q: %v", tt.input, err)
		}
	}
}

func TestParser_MalformedDocument(t *testing.T) {
	progs, err := ParseAll(strings.NewReader("<tv><programme></tv>"))
	if err != nil {
		// Non-strict decoding keeps going; any error here is a reader problem.
		t.Logf("parse returned: %v", err)
	}
	for _, prog := range progs {
		if prog.Title != "" {
			t.Errorf("expected empty title from malformed doc, got '%s'", prog.Title)
		}
	}
}

func TestParser_ParseCompressedBzip2(t *testing.T) {
	var buf bytes.Buffer
	bw, err := bzip2.NewWriter(&buf, nil)
	if err != nil {
		t.Fatalf("creating bzip2 writer: %v", err)
	}
	if _, err := bw.Write([]byte(sampleXMLTV)); err != nil {
		t.Fatalf("writing bzip2: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("closing bzip2: %v", err)
	}

	var programmes []*Programme
	p := &Parser{
		OnProgramme: func(prog *Programme) error {
			programmes = append(programmes, prog)
			return nil
		},
	}
	if err := p.ParseCompressed(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(programmes) != 2 {
		t.Fatalf("expected 2 programmes, got %d", len(programmes))
	}
}
