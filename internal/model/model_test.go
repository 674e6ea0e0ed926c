package model

import "testing"

func TestFileNameFromTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Plain Title", "Plain-Title"},
		{"A  Beginner's   Guide", "A-Beginner's-Guide"},
		{" leading and trailing ", "leading-and-trailing"},
		{"Tabs\tand\nnewlines", "Tabs-and-newlines"},
		{"Slashes/are: invalid", "Slashes_are_-invalid"},
		{"Trailing dots...", "Trailing-dots"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FileNameFromTitle(tt.input)
			if got != tt.want {
				t.Errorf("FileNameFromTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBook_Path(t *testing.T) {
	book := Book{
		DOI:     "10.1007/978-3-319-11080-6",
		Title:   "All of Statistics",
		Package: "Mathematics and Statistics",
	}

	tests := []struct {
		name   string
		cfg    PathConfig
		format Format
		want   string
	}{
		{
			name:   "flat destination",
			cfg:    PathConfig{Destination: "/books"},
			format: FormatPDF,
			want:   "/books/All-of-Statistics.pdf",
		},
		{
			name:   "grouped by package",
			cfg:    PathConfig{Destination: "/books", GroupByPackage: true},
			format: FormatEPUB,
			want:   "/books/Mathematics and Statistics/All-of-Statistics.epub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := book.Path(tt.format, &tt.cfg)
			if got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, ok := ParseFormat("pdf"); !ok || f != FormatPDF {
		t.Errorf("ParseFormat(pdf) = %v, %v", f, ok)
	}
	if f, ok := ParseFormat("epub"); !ok || f != FormatEPUB {
		t.Errorf("ParseFormat(epub) = %v, %v", f, ok)
	}
	if _, ok := ParseFormat("mobi"); ok {
		t.Error("ParseFormat(mobi) should not be ok")
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatPDF, ".pdf"},
		{FormatEPUB, ".epub"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Valid(t *testing.T) {
	if !FormatPDF.Valid() || !FormatEPUB.Valid() {
		t.Error("pdf and epub must be valid formats")
	}
	if Format(7).Valid() {
		t.Error("Format(7) must not be valid")
	}
}
