package helpers

import (
	"strings"
	"testing"
	"time"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "plain address", email: "merchant@example.com", want: true},
		{name: "subdomain", email: "a@mail.shop.io", want: true},
		{name: "missing at", email: "merchant.example.com", want: false},
		{name: "missing tld", email: "merchant@example", want: false},
		{name: "embedded space", email: "mer chant@example.com", want: false},
		{name: "empty", email: "", want: false},
		{name: "double at", email: "a@b@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	jan5 := time.Date(2024, time.January, 5, 10, 30, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name   string
		millis int64
		want   string
	}{
		{name: "regular date", millis: jan5, want: "Jan 5, 2024"},
		{name: "double digit day", millis: time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC).UnixMilli(), want: "Dec 25, 2023"},
		{name: "zero is blank", millis: 0, want: ""},
		{name: "negative is blank", millis: -5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.millis); got != tt.want {
				t.Fatalf("FormatDate(%d) = %q, want %q", tt.millis, got, tt.want)
			}
		})
	}
}

func TestGenerateFilenameShape(t *testing.T) {
	name := GenerateFilename()
	if name == "" {
		t.Fatal("empty filename")
	}
	idx := strings.LastIndex(name, "-")
	if idx <= 0 || idx == len(name)-1 {
		t.Fatalf("filename %q missing random-timestamp separator", name)
	}
	if GenerateFilename() == name {
		t.Fatal("two generated filenames collided")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "apple", want: "Apple"},
		{in: "Banana", want: "Banana"},
		{in: "éclair", want: "Éclair"},
		{in: "x", want: "X"},
	}

	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Fatalf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
