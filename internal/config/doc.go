// Package config manages springer-dl settings.
//
// Settings are stored as JSON. Loading a missing file yields defaults,
// and missing fields keep their default values:
//
//	settings, err := config.Load("/home/user/.config/springer-dl.json")
//	settings.Destination = "/books"
//	err = settings.Save("/home/user/.config/springer-dl.json")
package config
