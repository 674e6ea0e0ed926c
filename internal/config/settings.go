package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"springerdl/internal/model"
)

// DefaultListingURL is the publisher's free-book listing export.
const DefaultListingURL = "https://resource-cms.springernature.com/springer-cms/rest/v1/content/17858272/data/v5"

// Default download link templates. {doi} is replaced with the
// percent-encoded book identifier.
const (
	DefaultPDFLinkTemplate  = "https://link.springer.com/content/pdf/{doi}.pdf"
	DefaultEPUBLinkTemplate = "https://link.springer.com/download/epub/{doi}.epub"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	Destination    string `json:"destination"`
	GroupByPackage bool   `json:"group_by_package"`

	// Listing settings
	ListingURL string `json:"listing_url"`
	CachePath  string `json:"cache_path"`

	// Link templates, with a {doi} placeholder
	PDFLinkTemplate  string `json:"pdf_link_template"`
	EPUBLinkTemplate string `json:"epub_link_template"`

	// HTTP settings
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"`
	UserAgent          string `json:"user_agent"`
}

// DefaultSettings returns settings with default values.
//
// The destination defaults to the current working directory and the
// listing cache lives under the system temp directory, so repeated runs
// reuse the fetched listing.
func DefaultSettings() *Settings {
	return &Settings{
		Destination:    ".",
		GroupByPackage: false,

		ListingURL: DefaultListingURL,
		CachePath:  filepath.Join(os.TempDir(), "springer-dl", "books.xlsx"),

		PDFLinkTemplate:  DefaultPDFLinkTemplate,
		EPUBLinkTemplate: DefaultEPUBLinkTemplate,

		HTTPTimeoutSeconds: 60,
		UserAgent:          "springer-dl",
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned. Fields absent
// from the file keep their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LinkTemplate returns the download link template for the given format.
func (s *Settings) LinkTemplate(format model.Format) string {
	if format == model.FormatEPUB {
		return s.EPUBLinkTemplate
	}
	return s.PDFLinkTemplate
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		Destination:    s.Destination,
		GroupByPackage: s.GroupByPackage,
	}
}
