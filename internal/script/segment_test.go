package script

import (
	"reflect"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "basic punctuation",
			input: "Hello world. This is great! Really?",
			want:  []string{"Hello world", "This is great", "Really"},
		},
		{
			name:  "newlines as boundaries",
			input: "First line\nSecond line\r\nThird line",
			want:  []string{"First line", "Second line", "Third line"},
		},
		{
			name:  "runs of terminators collapse",
			input: "Wait... what?! No way!!!",
			want:  []string{"Wait", "what", "No way"},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  padded sentence .  another one ",
			want:  []string{"padded sentence", "another one"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  []string{},
		},
		{
			name:  "no terminator at end",
			input: "trailing sentence",
			want:  []string{"trailing sentence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSegmentDeterministic(t *testing.T) {
	input := "One. Two! Three?\nFour"
	first := Segment(input)
	for i := 0; i < 10; i++ {
		again := Segment(input)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: got %v, want %v", i, again, first)
		}
	}
}
