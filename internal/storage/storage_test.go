package storage

import (
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "plain filename",
			input: "buddy.jpg",
			want:  "buddy.jpg",
		},
		{
			name:  "strips unix path",
			input: "/etc/passwd",
			want:  "passwd",
		},
		{
			name:  "strips windows path",
			input: `C:\Users\me\cat.png`,
			want:  "cat.png",
		},
		{
			name:  "replaces spaces and specials",
			input: "my dog (1).jpeg",
			want:  "my_dog__1_.jpeg",
		},
		{
			name:  "strips traversal",
			input: "../../secret.png",
			want:  "secret.png",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyName,
		},
		{
			name:    "only dots",
			input:   "..",
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeName(tt.input)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("SanitizeName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeName(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
