// Package report renders the software catalog as plain text.
//
// The output has no colour codes so it can be written to a terminal, a file
// or used as the body of a ticket.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/registry"
)

// Selection chooses what a report covers.
//
//   - neither list set: every vendor with all of its software
//   - VendorIDs set: those vendors, each with its software, limited to
//     SoftwareIDs when that is set too
//   - only SoftwareIDs set: one line per software naming its vendor
type Selection struct {
	VendorIDs   []string
	SoftwareIDs []string

	// Detailed adds user, license and installation tables per software.
	Detailed bool
}

// Vendors writes one "id - name" line per vendor; all vendors when ids is empty.
func Vendors(w io.Writer, reg *registry.Registry, ids []string) error {
	if len(ids) == 0 {
		ids = reg.VendorIDs()
	}
	for _, id := range ids {
		v, ok := reg.Vendors[id]
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "vendor %s is not in the catalog", id)
		}
		if _, err := fmt.Fprintf(w, "%s - %s\n", id, v.Name); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the report for sel.
func Render(w io.Writer, reg *registry.Registry, sel Selection) error {
	var b strings.Builder
	var err error
	switch {
	case len(sel.VendorIDs) > 0:
		err = renderVendors(&b, reg, sel.VendorIDs, sel)
	case len(sel.SoftwareIDs) > 0:
		err = renderSoftware(&b, reg, sel)
	default:
		err = renderVendors(&b, reg, reg.VendorIDs(), sel)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, b.String())
	return err
}

func renderVendors(b *strings.Builder, reg *registry.Registry, vendorIDs []string, sel Selection) error {
	var only map[string]bool
	if len(sel.SoftwareIDs) > 0 {
		only = make(map[string]bool, len(sel.SoftwareIDs))
		for _, id := range sel.SoftwareIDs {
			only[id] = true
		}
	}

	for _, vid := range vendorIDs {
		v, ok := reg.Vendors[vid]
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "vendor %s is not in the catalog", vid)
		}
		fmt.Fprintf(b, "%s - %s\n", vid, v.Name)
		for _, sid := range v.Software {
			if only != nil && !only[sid] {
				continue
			}
			sw, ok := reg.Software[sid]
			if !ok {
				continue
			}
			fmt.Fprintf(b, "\t%s - %s\n", sid, sw.Name)
			if sel.Detailed {
				writeDetails(b, sw)
			}
		}
	}
	return nil
}

func renderSoftware(b *strings.Builder, reg *registry.Registry, sel Selection) error {
	for _, sid := range sel.SoftwareIDs {
		sw, ok := reg.Software[sid]
		if !ok {
			return errs.New(errs.ErrCodeNotFound, "software %s is not in the catalog", sid)
		}
		vendorID, vendor := registry.Unregistered, registry.Unregistered
		if v := reg.Publisher(sw); v != nil {
			vendorID, vendor = v.ID, v.Name
		}
		fmt.Fprintf(b, "%s - %s - %s - %s\n", vendorID, vendor, sid, sw.Name)
		if sel.Detailed {
			writeDetails(b, sw)
		}
	}
	return nil
}

func writeDetails(b *strings.Builder, sw *registry.Software) {
	fmt.Fprintf(b, "\t\tcategory: %s, status: %s\n", orDash(sw.Category), orDash(sw.Status))

	if len(sw.Users) > 0 {
		rows := make([][]string, 0, len(sw.Users))
		for _, u := range sw.Users {
			rows = append(rows, []string{u.User, deref(u.License), orDash(u.State), formatTime(u.LastUse)})
		}
		writeTable(b, fmt.Sprintf("users (%d)", len(sw.Users)), []string{"User", "License", "State", "Last use"}, rows)
	}
	if len(sw.Licenses) > 0 {
		rows := make([][]string, 0, len(sw.Licenses))
		for _, l := range sw.Licenses {
			rows = append(rows, []string{l.License, orDash(l.ContractID)})
		}
		writeTable(b, fmt.Sprintf("licenses (%d)", len(sw.Licenses)), []string{"License", "Contract"}, rows)
	}
	if len(sw.Installs) > 0 {
		rows := make([][]string, 0, len(sw.Installs))
		for _, in := range sw.Installs {
			rows = append(rows, []string{
				in.Machine, deref(in.Name), deref(in.Status), orDash(in.Version), orDash(in.Path), deref(in.Description),
			})
		}
		writeTable(b, fmt.Sprintf("installations (%d)", len(sw.Installs)),
			[]string{"Machine", "Name", "Status", "Version", "Path", "Description"}, rows)
	}
}

func writeTable(b *strings.Builder, title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintf(b, "\t\t%s\n", title)
	for _, line := range strings.Split(t.Render(), "\n") {
		fmt.Fprintf(b, "\t\t%s\n", strings.TrimRight(line, " "))
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return orDash(*s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
