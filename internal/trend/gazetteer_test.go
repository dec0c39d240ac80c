package trend

import (
	"reflect"
	"testing"
)

func TestFindLocationsWholeWord(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"virus in the US", []string{"United States"}},
		{"viruses spread quickly", []string{}},
		{"Attacks rose in the U.S. last year", []string{"United States"}},
		{"usa and uk regulators", []string{"United States", "United Kingdom"}},
		{"GERMANY and France", []string{"Germany", "France"}},
		{"Russian and Chinese actors", []string{"Russia", "China"}},
		{"Indiana is a state", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		got := FindLocations(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("FindLocations(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFindLocationsDedupesAliases(t *testing.T) {
	got := FindLocations("US firms and the United States government")
	if len(got) != 1 || got[0] != "United States" {
		t.Errorf("got %v, want [United States]", got)
	}
}

func TestFindLocationsFoldsFullWidth(t *testing.T) {
	got := FindLocations("ＵＫ breach report")
	if len(got) != 1 || got[0] != "United Kingdom" {
		t.Errorf("got %v, want [United Kingdom]", got)
	}
}
