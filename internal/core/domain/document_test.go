package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

func TestLineBoard_MarshalKeepsInsertionOrder(t *testing.T) {
	var b domain.LineBoard
	item := domain.DisplayItem{Schedule: "22:36.00", Expected: "22:37.00", Type: "bus"}

	b.Add(domain.NamedLine("FB1"), "Oslo lufthavn", []domain.DisplayItem{item})
	b.Add(domain.NumericLine(4), "Vestli - 1", []domain.DisplayItem{item})
	b.Add(domain.NumericLine(4), "Bergkrystallen - 2", nil)

	got, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"FB1":{"Oslo lufthavn":[{"schedule":"22:36.00","expected":"22:37.00","type":"bus"}]},` +
		`"4":{"Vestli - 1":[{"schedule":"22:36.00","expected":"22:37.00","type":"bus"}],"Bergkrystallen - 2":[]}}`
	if string(got) != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLineBoard_Empty(t *testing.T) {
	var doc domain.Document
	got, err := json.Marshal(doc.Departures)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{}" {
		t.Errorf("expected {}, got %s", got)
	}
}

func TestLineBoard_EscapesKeys(t *testing.T) {
	var b domain.LineBoard
	b.Add(domain.NamedLine(`"L"`), `Sandvika <"x">`, nil)
	got, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]map[string][]domain.DisplayItem
	if err := json.Unmarshal(got, &out); err != nil {
		t.Fatalf("invalid JSON %s: %v", got, err)
	}
	if _, ok := out[`"L"`][`Sandvika <"x">`]; !ok {
		t.Errorf("keys not round-tripped: %v", out)
	}
}
