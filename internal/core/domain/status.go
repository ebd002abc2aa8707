package domain

import "strings"

type Status string

const (
	StatusSafe     Status = "SAFE"
	StatusNeedHelp Status = "NEED_HELP"
	StatusUnknown  Status = "UNKNOWN"
)

// UnknownLocation is rendered when a report carries no location.
const UnknownLocation = "不明"

// ParseStatus never fails. Values outside the enumeration degrade to
// StatusUnknown. The lowercase spellings used by the web form ("safe",
// "help") are accepted as well.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SAFE":
		return StatusSafe
	case "NEED_HELP", "HELP":
		return StatusNeedHelp
	default:
		return StatusUnknown
	}
}

// Label is the Japanese badge text for the status.
func (s Status) Label() string {
	switch s {
	case StatusSafe:
		return "安全"
	case StatusNeedHelp:
		return "支援が必要"
	default:
		return "不明"
	}
}

// SafetyStatus is one report as returned by the backend.
type SafetyStatus struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Status    Status `json:"status"`
	Timestamp string `json:"timestamp"`
	Location  string `json:"location,omitempty"`
}

// LocationOrUnknown returns the location, or UnknownLocation when absent.
func (s SafetyStatus) LocationOrUnknown() string {
	if strings.TrimSpace(s.Location) == "" {
		return UnknownLocation
	}
	return s.Location
}

// Entry is a status joined with the user it references. User is nil when
// the status is unresolved.
type Entry struct {
	Report SafetyStatus
	User   *User
}

func (e Entry) Resolved() bool {
	return e.User != nil
}

// DisplayName falls back to UnknownUserName for unresolved entries.
func (e Entry) DisplayName() string {
	if e.User == nil {
		return UnknownUserName
	}
	return e.User.Name
}
