package faq

import "time"

// DefaultCacheTTL bounds how stale cached markup can get.
const DefaultCacheTTL = 6 * time.Hour

// Config holds runtime knobs for the FAQ widget.
type Config struct {
	VersionTag       string
	CacheTTL         time.Duration
	SchemaMaxEntries int
	ShowSchema       bool
	Endpoint         string
	Action           string
}
