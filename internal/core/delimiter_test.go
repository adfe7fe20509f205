package core

import (
	"errors"
	"testing"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Delimiter
		wantErr bool
	}{
		{name: "tab escape", token: `\t`, want: '\t'},
		{name: "literal tab", token: "\t", want: '\t'},
		{name: "comma", token: ",", want: ','},
		{name: "pipe", token: "|", want: '|'},
		{name: "space", token: " ", want: ' '},
		{name: "empty", token: "", wantErr: true},
		{name: "two characters", token: "::", wantErr: true},
		{name: "other escape", token: `\n`, wantErr: true},
		{name: "non-ascii", token: "é", wantErr: true},
		{name: "invalid byte", token: "\xff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDelimiter(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDelimiter) {
					t.Fatalf("ParseDelimiter(%q) error = %v, want ErrInvalidDelimiter", tt.token, err)
				}
				var de *DelimiterError
				if !errors.As(err, &de) || de.Token != tt.token {
					t.Errorf("error should carry token %q: %v", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDelimiter(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestDelimiterToken(t *testing.T) {
	if got := Delimiter('\t').Token(); got != `\t` {
		t.Errorf("tab Token() = %q, want %q", got, `\t`)
	}
	if got := Delimiter(',').Token(); got != "," {
		t.Errorf("comma Token() = %q, want %q", got, ",")
	}
	if got := Delimiter(';').String(); got != ";" {
		t.Errorf("String() = %q, want %q", got, ";")
	}
}

func TestParseColumn(t *testing.T) {
	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{text: "1", want: 1},
		{text: "12", want: 12},
		{text: "0", wantErr: true},
		{text: "-1", wantErr: true},
		{text: "two", wantErr: true},
		{text: "", wantErr: true},
		{text: " 2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseColumn(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColumnIndex) {
					t.Errorf("ParseColumn(%q) error = %v, want ErrInvalidColumnIndex", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColumn(%q) error = %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseColumn(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
