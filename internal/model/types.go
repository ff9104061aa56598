// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	DictPath      string
	TriePath      string
	TextPath      string
	MaxCandidates int
}

// ServeConfig defines session server settings.
type ServeConfig struct {
	Addr      string
	LogFormat string
}
