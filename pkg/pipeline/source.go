package pipeline

import (
	"context"

	"github.com/matzehuels/swcatalog/pkg/integrations/freshservice"
	"github.com/matzehuels/swcatalog/pkg/registry"
)

// CatalogSource lists the top-level collections.
type CatalogSource interface {
	Vendors(ctx context.Context) ([]freshservice.Vendor, error)
	Applications(ctx context.Context) ([]freshservice.Application, error)
}

// DetailSource lists the per-application sub-collections.
type DetailSource interface {
	ApplicationUsers(ctx context.Context, appID string) ([]freshservice.ApplicationUser, error)
	ApplicationLicenses(ctx context.Context, appID string) ([]freshservice.ApplicationLicense, error)
	Installations(ctx context.Context, appID string) ([]freshservice.Installation, error)
}

// AssetSource looks up a single asset by its display id.
type AssetSource interface {
	Asset(ctx context.Context, displayID string) (*freshservice.Asset, error)
}

// Deleter removes applications.
type Deleter interface {
	DeleteApplication(ctx context.Context, appID string) error
}

// Source is everything a [Runner] needs from the remote service.
// *freshservice.Client implements it.
type Source interface {
	CatalogSource
	DetailSource
	AssetSource
	Deleter
}

var _ Source = (*freshservice.Client)(nil)

func newVendor(v freshservice.Vendor) *registry.Vendor {
	return &registry.Vendor{ID: v.ID.String(), Name: v.Name, Software: []string{}}
}

func newSoftware(a freshservice.Application) *registry.Software {
	publisher := a.PublisherID.String()
	if publisher == "" {
		publisher = registry.Unregistered
	}
	return &registry.Software{
		ID:          a.ID.String(),
		Name:        a.Name,
		PublisherID: publisher,
		Category:    a.Category,
		Status:      a.Status,
		Users:       []registry.UserAssignment{},
		Installs:    []registry.Installation{},
		Licenses:    []registry.License{},
	}
}

func newUsers(in []freshservice.ApplicationUser) []registry.UserAssignment {
	out := make([]registry.UserAssignment, 0, len(in))
	for _, u := range in {
		out = append(out, registry.UserAssignment{
			User:    u.UserID.String(),
			License: u.LicenseID.Ptr(),
			State:   u.State,
			LastUse: u.LastUsed.Ptr(),
		})
	}
	return out
}

func newLicenses(in []freshservice.ApplicationLicense) []registry.License {
	out := make([]registry.License, 0, len(in))
	for _, l := range in {
		out = append(out, registry.License{License: l.ID.String(), ContractID: l.ContractID.String()})
	}
	return out
}

func newInstallation(in freshservice.Installation) registry.Installation {
	return registry.Installation{
		Path:    in.Path,
		Version: in.Version,
		User:    in.UserID.String(),
		Machine: in.MachineID.String(),
	}
}
