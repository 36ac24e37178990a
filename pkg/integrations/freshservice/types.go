package freshservice

import (
	"bytes"
	"encoding/json"
	"time"
)

// ID is a Freshservice identifier. The API sends ids as JSON numbers; ID
// keeps their exact decimal text so that large values survive unchanged.
// JSON strings are accepted as-is and null decodes to the empty ID.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the id text.
func (id ID) String() string { return string(id) }

// Ptr returns nil for the empty ID, otherwise a pointer to its text.
func (id ID) Ptr() *string {
	if id == "" {
		return nil
	}
	s := string(id)
	return &s
}

// Timestamp is a leniently decoded ISO-8601 timestamp. Values the API sends
// as null, empty or in an unknown layout decode to the zero time rather than
// failing the whole page.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return nil
}

// Ptr returns nil for the zero timestamp.
func (t Timestamp) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// Vendor is one record of GET /vendors.
type Vendor struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Application is one record of GET /applications.
type Application struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	PublisherID ID     `json:"publisher_id"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

// ApplicationUser is one record of GET /applications/{id}/users.
type ApplicationUser struct {
	UserID    ID        `json:"user_id"`
	LicenseID ID        `json:"license_id"`
	State     string    `json:"state"`
	LastUsed  Timestamp `json:"last_used"`
}

// ApplicationLicense is one record of GET /applications/{id}/licenses.
type ApplicationLicense struct {
	ID         ID `json:"id"`
	ContractID ID `json:"contract_id"`
}

// Installation is one record of GET /applications/{id}/installations.
type Installation struct {
	Path      string `json:"installation_path"`
	Version   string `json:"version"`
	UserID    ID     `json:"user_id"`
	MachineID ID     `json:"installation_machine_id"`
}

// Asset is the subset of GET /assets/{display_id}?include=type_fields the
// catalog uses. Type fields are kept raw; their keys are tenant-specific.
type Asset struct {
	Name        *string                    `json:"name"`
	Description *string                    `json:"description"`
	TypeFields  map[string]json.RawMessage `json:"type_fields"`
}

// TypeField returns the named type field rendered as text, or nil when the
// field is absent or null. String values are returned unquoted.
func (a *Asset) TypeField(key string) *string {
	if a == nil {
		return nil
	}
	raw, ok := a.TypeFields[key]
	if !ok {
		return nil
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	s = string(raw)
	return &s
}

// Ticket is the body of POST /tickets. Zero-valued optional fields are omitted.
type Ticket struct {
	Subject      string   `json:"subject"`
	Description  string   `json:"description"`
	Email        string   `json:"email,omitempty"`
	CCEmails     []string `json:"cc_emails,omitempty"`
	Priority     int      `json:"priority"`
	Status       int      `json:"status"`
	Source       int      `json:"source,omitempty"`
	DepartmentID int64    `json:"department_id,omitempty"`
	GroupID      int64    `json:"group_id,omitempty"`
	Category     string   `json:"category,omitempty"`
	WorkspaceID  int64    `json:"workspace_id,omitempty"`
}

// CreatedTicket is the part of the POST /tickets response the CLI reports.
type CreatedTicket struct {
	ID      ID     `json:"id"`
	Subject string `json:"subject"`
}
