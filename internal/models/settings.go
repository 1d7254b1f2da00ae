package models

// Settings is the singleton site configuration, mutated only by the
// admin settings view and never remotely persisted.
type Settings struct {
	SiteName       string `json:"siteName"`
	SiteEmail      string `json:"siteEmail"`
	SitePhone      string `json:"sitePhone"`
	MaxGuests      int    `json:"maxGuests"`
	AdvanceBooking int    `json:"advanceBooking"` // days
}

// Notification is the single transient user-facing message. At most
// one is live at a time; it auto-expires after NotificationTTLSeconds.
type Notification struct {
	Kind string `json:"type"` // info, success, error
	Text string `json:"text"`
}
