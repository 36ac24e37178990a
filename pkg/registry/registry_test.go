package registry

import (
	"slices"
	"testing"
)

func sampleRegistry() *Registry {
	r := New()
	r.Vendors["200"] = &Vendor{ID: "200", Name: "Adobe Inc.", Software: []string{}}
	r.Vendors["100"] = &Vendor{ID: "100", Name: "Microsoft", Software: []string{}}
	r.Software["9"] = &Software{ID: "9", Name: "Acrobat Reader", PublisherID: "200"}
	r.Software["10"] = &Software{ID: "10", Name: "Photoshop", PublisherID: "200"}
	r.Software["11"] = &Software{ID: "11", Name: "Visual Studio Code", PublisherID: "100"}
	r.Software["12"] = &Software{ID: "12", Name: "Notepad++", PublisherID: Unregistered}
	r.Software["13"] = &Software{ID: "13", Name: "Orphan Tool", PublisherID: "999"}
	return r
}

func TestLink(t *testing.T) {
	r := sampleRegistry()
	r.Link()

	tests := []struct {
		vendor string
		want   []string
	}{
		{"200", []string{"9", "10"}},
		{"100", []string{"11"}},
		{Unregistered, []string{"12", "13"}},
	}
	for _, tt := range tests {
		if got := r.Vendors[tt.vendor].Software; !slices.Equal(got, tt.want) {
			t.Errorf("vendor %s software = %v, want %v", tt.vendor, got, tt.want)
		}
	}
	if r.Software["13"].PublisherID != "999" {
		t.Errorf("unknown publisher id rewritten to %q", r.Software["13"].PublisherID)
	}
	if v := r.Publisher(r.Software["13"]); v == nil || v.ID != Unregistered {
		t.Errorf("Publisher() of unknown publisher = %v, want %s", v, Unregistered)
	}
}

func TestLinkRecoversPublisher(t *testing.T) {
	r := sampleRegistry()
	r.Link()

	r.Vendors["999"] = &Vendor{ID: "999", Name: "Orphan Corp"}
	r.Link()

	if got := r.Vendors["999"].Software; !slices.Equal(got, []string{"13"}) {
		t.Errorf("vendor 999 software = %v, want [13]", got)
	}
	if got := r.Vendors[Unregistered].Software; !slices.Equal(got, []string{"12"}) {
		t.Errorf("unregistered software = %v, want [12]", got)
	}
}

func TestLinkIdempotent(t *testing.T) {
	r := sampleRegistry()
	r.Link()
	r.Link()
	r.Link()

	count := 0
	for _, id := range r.Vendors[Unregistered].Software {
		if id == "12" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("software 12 listed %d times under %s, want 1", count, Unregistered)
	}
	if got := len(r.Vendors["200"].Software); got != 2 {
		t.Errorf("vendor 200 has %d software after repeated Link, want 2", got)
	}
}

func TestLinkWithoutVendors(t *testing.T) {
	r := New()
	r.Software["1"] = &Software{ID: "1", Name: "x", PublisherID: "5"}
	r.Link()

	v, ok := r.Vendors[Unregistered]
	if !ok {
		t.Fatal("Link should create the unregistered vendor")
	}
	if !slices.Equal(v.Software, []string{"1"}) {
		t.Errorf("unregistered software = %v", v.Software)
	}
}

func TestFilter(t *testing.T) {
	r := sampleRegistry()
	r.EnsureUnregistered()

	tests := []struct {
		name  string
		terms []string
		fn    func([]string) []string
		want  []string
	}{
		{"vendor case-insensitive", []string{"ADOBE"}, r.FilterVendors, []string{"200"}},
		{"vendor any term", []string{"micro", "adobe"}, r.FilterVendors, []string{"100", "200"}},
		{"vendor no match", []string{"oracle"}, r.FilterVendors, nil},
		{"vendor empty term ignored", []string{""}, r.FilterVendors, nil},
		{"software substring", []string{"studio"}, r.FilterSoftware, []string{"11"}},
		{"software several", []string{"photo", "acro"}, r.FilterSoftware, []string{"9", "10"}},
		{"software none", nil, r.FilterSoftware, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.terms); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSoftwareIDsOrder(t *testing.T) {
	r := New()
	for _, id := range []string{"100", "9", "UNREGISTERED", "11000765764", "10"} {
		r.Software[id] = &Software{ID: id}
	}
	want := []string{"9", "10", "100", "11000765764", "UNREGISTERED"}
	if got := r.SoftwareIDs(); !slices.Equal(got, want) {
		t.Errorf("SoftwareIDs() = %v, want %v", got, want)
	}
}

func TestUnused(t *testing.T) {
	sw := &Software{}
	if !sw.Unused() {
		t.Error("empty software should be unused")
	}
	sw.Licenses = []License{{License: "1", ContractID: "2"}}
	if sw.Unused() {
		t.Error("software with a license is in use")
	}
}
