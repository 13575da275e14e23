package constants

// Boolean string values
const (
	BoolTrue  = "true"
	BoolFalse = "false"
	BoolYes   = "yes"
	BoolNo    = "no"
	BoolOne   = "1"
	BoolZero  = "0"
)

// Magic numbers for various operations
const (
	// Display limits
	DefaultSearchLimit = 10
	DefaultListLimit   = 20
	DefaultAPIListSize = 50
	RecentNotesLimit   = 10

	// Card previews
	PreviewLength      = 100
	PreviewLines       = 4
	ShortPreviewLength = 80
	TruncationMarker   = "..."

	// Time calculations
	HoursPerDay = 24
)

// Preference keys
const (
	PrefEmptyQuery    = "search.empty_query"
	PrefSearchLimit   = "search.limit"
	PrefPreviewLength = "cards.preview_length"
	PrefPreviewLines  = "cards.preview_lines"
)

// File permissions
const (
	ConfigFileMode = 0600 // Secure file permissions for config
)
