package handlers

import (
	"reflect"
	"testing"
)

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"borscht", []string{"borscht"}},
		{"borscht,beet", []string{"borscht", "beet"}},
		{" borscht , beet ", []string{"borscht", "beet"}},
		{"borscht,,beet,", []string{"borscht", "beet"}},
		{"", nil},
		{" , , ", nil},
	}

	for _, tt := range tests {
		got := parseSearchTerms(tt.query)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseSearchTerms(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil || page != 1 || limit != 20 {
		t.Fatalf("defaults: page=%d limit=%d err=%v", page, limit, err)
	}

	page, limit, err = parsePaginationParams("3", "50")
	if err != nil || page != 3 || limit != 50 {
		t.Fatalf("explicit: page=%d limit=%d err=%v", page, limit, err)
	}

	for _, pair := range [][2]string{
		{"0", "10"},
		{"-1", "10"},
		{"abc", "10"},
		{"1", "0"},
		{"1", "-5"},
		{"1", "many"},
	} {
		if _, _, err := parsePaginationParams(pair[0], pair[1]); err == nil {
			t.Errorf("expected error for page=%q limit=%q", pair[0], pair[1])
		}
	}
}
