package cli

import (
	"slices"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/registry"
	"github.com/matzehuels/swcatalog/pkg/report"
)

// filterFlags are the name filters shared by the catalog commands.
type filterFlags struct {
	vendors  []string
	software []string
	ids      []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.vendors, "vendor", nil, "vendor name filter (case-insensitive substring, repeatable)")
	cmd.Flags().StringSliceVar(&f.software, "software", nil, "software name filter (case-insensitive substring, repeatable)")
	cmd.Flags().StringSliceVar(&f.ids, "id", nil, "software id to include (repeatable)")
}

func (f *filterFlags) empty() bool {
	return len(f.vendors) == 0 && len(f.software) == 0 && len(f.ids) == 0
}

// resolve turns the filters into a report selection. Explicit ids are added
// to the software name matches. A filter that matches nothing is an error
// rather than an empty report.
func (f *filterFlags) resolve(reg *registry.Registry) (report.Selection, error) {
	var sel report.Selection
	if len(f.vendors) > 0 {
		sel.VendorIDs = reg.FilterVendors(f.vendors)
		if len(sel.VendorIDs) == 0 {
			return sel, errs.New(errs.ErrCodeNotFound, "no vendor matches %v", f.vendors)
		}
	}
	if len(f.software) > 0 {
		sel.SoftwareIDs = reg.FilterSoftware(f.software)
		if len(sel.SoftwareIDs) == 0 {
			return sel, errs.New(errs.ErrCodeNotFound, "no software matches %v", f.software)
		}
	}
	for _, id := range f.ids {
		if err := errs.ValidateID(id); err != nil {
			return sel, err
		}
		if _, ok := reg.Software[id]; !ok {
			return sel, errs.New(errs.ErrCodeNotFound, "no software with id %s", id)
		}
		if !slices.Contains(sel.SoftwareIDs, id) {
			sel.SoftwareIDs = append(sel.SoftwareIDs, id)
		}
	}
	return sel, nil
}

// softwareIDs lists the software a selection covers. all is true when the
// selection is unrestricted.
func softwareIDs(reg *registry.Registry, sel report.Selection) (ids []string, all bool) {
	if len(sel.VendorIDs) == 0 {
		return sel.SoftwareIDs, len(sel.SoftwareIDs) == 0
	}
	for _, vid := range sel.VendorIDs {
		for _, sid := range reg.Vendors[vid].Software {
			if len(sel.SoftwareIDs) == 0 || slices.Contains(sel.SoftwareIDs, sid) {
				ids = append(ids, sid)
			}
		}
	}
	return ids, false
}
