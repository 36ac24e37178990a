// Package registry holds the in-memory software catalog: vendors, the
// software they publish and, once expanded, each software's user
// assignments, licenses and installations.
//
// A [Registry] is owned by one caller for the duration of a run. It is not
// safe for concurrent use except during expansion, where each worker writes
// only to the [Software] record it was handed and the key sets of both maps
// are frozen.
package registry

import (
	"slices"
	"strings"
	"time"
)

// Unregistered is the vendor id assigned to software without a known publisher.
const Unregistered = "UNREGISTERED"

// Vendor is a software publisher.
type Vendor struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Software []string `json:"software"`
}

// Software is a catalogued application.
type Software struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	PublisherID string           `json:"publisher_id"`
	Category    string           `json:"category"`
	Status      string           `json:"status"`
	Users       []UserAssignment `json:"users"`
	Installs    []Installation   `json:"installs"`
	Licenses    []License        `json:"licenses"`
}

// Unused reports whether the software has no users, installs or licenses.
func (s *Software) Unused() bool {
	return len(s.Users) == 0 && len(s.Installs) == 0 && len(s.Licenses) == 0
}

// UserAssignment links a user to a software, optionally through a license.
type UserAssignment struct {
	User    string     `json:"user"`
	License *string    `json:"license"`
	State   string     `json:"state"`
	LastUse *time.Time `json:"last_use"`
}

// License is a license record attached to a software.
type License struct {
	License    string `json:"license"`
	ContractID string `json:"contract_id"`
}

// Installation is one endpoint installation. Name, Description and Status
// come from the machine's asset record and are nil when it could not be read.
type Installation struct {
	Path        string  `json:"path"`
	Version     string  `json:"version"`
	User        string  `json:"user"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Machine     string  `json:"machine"`
}

// Registry maps ids to vendor and software records.
type Registry struct {
	Vendors  map[string]*Vendor
	Software map[string]*Software
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		Vendors:  make(map[string]*Vendor),
		Software: make(map[string]*Software),
	}
}

// NewUnregisteredVendor returns the placeholder vendor for software without a publisher.
func NewUnregisteredVendor() *Vendor {
	return &Vendor{ID: Unregistered, Name: Unregistered, Software: []string{}}
}

// EnsureUnregistered adds the [Unregistered] vendor if it is missing.
func (r *Registry) EnsureUnregistered() {
	if _, ok := r.Vendors[Unregistered]; !ok {
		r.Vendors[Unregistered] = NewUnregisteredVendor()
	}
}

// Link rebuilds every vendor's software list from the software records'
// publisher ids. Lists are reset first, so Link can run any number of times.
// Software whose publisher is empty or unknown is listed under
// [Unregistered]; its PublisherID is kept so a later, complete vendor list
// links it back.
func (r *Registry) Link() {
	r.EnsureUnregistered()
	for _, v := range r.Vendors {
		v.Software = []string{}
	}
	for _, id := range r.SoftwareIDs() {
		sw := r.Software[id]
		v := r.Publisher(sw)
		v.Software = append(v.Software, id)
	}
}

// VendorIDs returns all vendor ids in sorted order.
func (r *Registry) VendorIDs() []string {
	return sortedKeys(r.Vendors)
}

// SoftwareIDs returns all software ids in sorted order.
func (r *Registry) SoftwareIDs() []string {
	return sortedKeys(r.Software)
}

// Publisher returns the vendor of sw. Unknown publishers resolve to the
// [Unregistered] vendor, which is nil until Link or EnsureUnregistered ran.
func (r *Registry) Publisher(sw *Software) *Vendor {
	if v, ok := r.Vendors[sw.PublisherID]; ok {
		return v
	}
	return r.Vendors[Unregistered]
}

// FilterVendors returns the sorted ids of vendors whose name contains any of
// the terms, ignoring case.
func (r *Registry) FilterVendors(terms []string) []string {
	var ids []string
	for _, id := range r.VendorIDs() {
		if matchAny(r.Vendors[id].Name, terms) {
			ids = append(ids, id)
		}
	}
	return ids
}

// FilterSoftware returns the sorted ids of software whose name contains any
// of the terms, ignoring case.
func (r *Registry) FilterSoftware(terms []string) []string {
	var ids []string
	for _, id := range r.SoftwareIDs() {
		if matchAny(r.Software[id].Name, terms) {
			ids = append(ids, id)
		}
	}
	return ids
}

func matchAny(name string, terms []string) bool {
	name = strings.ToLower(name)
	for _, t := range terms {
		if t != "" && strings.Contains(name, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareIDs)
	return keys
}

// compareIDs orders numeric ids numerically and everything else after them
// lexically.
func compareIDs(a, b string) int {
	an, bn := isNumeric(a), isNumeric(b)
	switch {
	case an && bn:
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	case an:
		return -1
	case bn:
		return 1
	}
	return strings.Compare(a, b)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
