package settings

// DB config keys and defaults.
const (
	// SiteNameKey is the DB config key for the site display name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback site display name.
	DefaultSiteName = "Lucky Draw"
	// WinnerMailEnabledKey toggles outbound winner notification mail.
	WinnerMailEnabledKey = "WINNER_MAIL_ENABLED"
	// DefaultWinnerMailEnabled keeps winner mail on unless switched off.
	DefaultWinnerMailEnabled = true
)
