package models

import "strings"

// Condition is a named alarm condition kind an Entry can reference, e.g.
// "out of range". The reference from Entry.Condition is by name and is not
// a foreign key.
type Condition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Group is a named on/off toggle for a set of entries. Disabling a group
// silences every entry tagged with it.
type Group struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Entry is a single alerting rule bound to one process variable.
type Entry struct {
	ID string `json:"id"`

	Pvname         string `json:"pvname"`
	AlarmValues    string `json:"alarm_values"`    // which alarm states trigger notification
	Condition      string `json:"condition"`       // condition name, not enforced as a FK
	EmailTimeout   int    `json:"email_timeout"`   // minimum seconds between repeated notifications
	Emails         string `json:"emails"`          // colon-delimited recipient list
	Group          string `json:"group"`           // denormalized owning group name
	GroupID        string `json:"group_id"`        // owning group identity; consistency with Group is the caller's job
	Subject        string `json:"subject"`
	Unit           string `json:"unit"`
	WarningMessage string `json:"warning_message"`
}

// EmailList splits the colon-delimited recipient list into addresses.
func (e *Entry) EmailList() []string {
	var out []string
	for _, addr := range strings.Split(e.Emails, ":") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
