package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseEventKind(t *testing.T) {
	tests := []struct {
		input   string
		want    EventKind
		wantErr bool
	}{
		{"mirror", EventMirror, false},
		{"clean", EventClean, false},
		{"install", EventInstall, false},
		{"link", EventLink, false},
		{"Mirror", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEventKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEventKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEventKinds(t *testing.T) {
	kinds := EventKinds()
	if len(kinds) != 4 {
		t.Fatalf("EventKinds() length = %d, want 4", len(kinds))
	}
	if kinds[0] != EventMirror {
		t.Errorf("EventKinds()[0] = %q, want mirror first", kinds[0])
	}
}

func TestEvent_JSON(t *testing.T) {
	event := Event{
		ID:        7,
		Kind:      EventMirror,
		Summary:   `Emplace - mirror package "curl (Advanced Package Tool)"`,
		Packages:  []string{"curl (Advanced Package Tool)"},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["kind"] != "mirror" {
		t.Errorf("kind = %v, want mirror", decoded["kind"])
	}
	if decoded["created_at"] != "2024-03-01T12:00:00Z" {
		t.Errorf("created_at = %v", decoded["created_at"])
	}

	data, err = json.Marshal(Event{Kind: EventClean})
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatalf("invalid JSON %s", data)
	}
	if _, ok := decodedKeys(t, data)["packages"]; ok {
		t.Error("empty packages must be omitted")
	}
}

func decodedKeys(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m
}
