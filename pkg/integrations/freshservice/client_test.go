package freshservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/swcatalog/pkg/buildinfo"
	errs "github.com/matzehuels/swcatalog/pkg/errors"
	"github.com/matzehuels/swcatalog/pkg/httputil"
	"github.com/matzehuels/swcatalog/pkg/integrations"
)

type sleepRecorder struct {
	sleeps []time.Duration
}

func (s *sleepRecorder) Record(_ context.Context, d time.Duration) error {
	s.sleeps = append(s.sleeps, d)
	return nil
}

func testClient(t *testing.T, serverURL string, pageSize int) (*Client, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	return newClient(serverURL, Config{
		APIKey:     "key",
		PageSize:   pageSize,
		MaxRetries: 3,
		Backoff:    time.Second,
		Sleep:      rec.Record,
	}, nil), rec
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(Config{Domain: "acme.freshservice.com", APIKey: "key"}, nil)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if c.BaseURL() != "https://acme.freshservice.com/api/v2" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if c.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want %d", c.PageSize(), DefaultPageSize)
	}
}

func TestClientDefaultRetryPolicy(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	rec := &sleepRecorder{}
	c := newClient(server.URL, Config{APIKey: "key", Sleep: rec.Record}, nil)
	var v map[string]any
	err := c.Get(context.Background(), "/vendors/1", &v)
	if !errs.Is(err, errs.ErrCodeNetwork) {
		t.Errorf("Get() error = %v, want NETWORK_ERROR", err)
	}
	if calls != httputil.DefaultAttempts {
		t.Errorf("calls = %d, want %d", calls, httputil.DefaultAttempts)
	}
	if len(rec.sleeps) != httputil.DefaultAttempts-1 || rec.sleeps[0] != httputil.DefaultBackoff {
		t.Errorf("sleeps = %v, want %d x %v", rec.sleeps, httputil.DefaultAttempts-1, httputil.DefaultBackoff)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Domain: "", APIKey: "key"}, nil); !errs.Is(err, errs.ErrCodeInvalidDomain) {
		t.Errorf("empty domain error = %v", err)
	}
	if _, err := NewClient(Config{Domain: "https://acme.freshservice.com", APIKey: "key"}, nil); err == nil {
		t.Error("domain with scheme should be rejected")
	}
	if _, err := NewClient(Config{Domain: "acme.freshservice.com"}, nil); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("missing key error = %v", err)
	}
}

func TestClientApplicationsRateLimitedPage(t *testing.T) {
	var calls int32
	var throttled int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/applications" {
			t.Errorf("path = %q", r.URL.Path)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 2 && atomic.CompareAndSwapInt32(&throttled, 0, 1) {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var apps []map[string]any
		n := 2
		if page == 2 {
			n = 1
		}
		for i := 0; i < n; i++ {
			apps = append(apps, map[string]any{
				"id":           page*10 + i,
				"name":         "app",
				"publisher_id": nil,
				"category":     "Productivity",
				"status":       "managed",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"applications": apps})
	}))
	defer server.Close()

	c, rec := testClient(t, server.URL, 2)
	apps, err := c.Applications(context.Background())
	if err != nil {
		t.Fatalf("Applications() error: %v", err)
	}

	want := []ID{"10", "11", "20"}
	if len(apps) != len(want) {
		t.Fatalf("got %d apps, want %d", len(apps), len(want))
	}
	for i, a := range apps {
		if a.ID != want[i] {
			t.Errorf("apps[%d].ID = %s, want %s", i, a.ID, want[i])
		}
		if a.PublisherID != "" {
			t.Errorf("apps[%d].PublisherID = %q, want empty", i, a.PublisherID)
		}
	}
	if calls != 3 {
		t.Errorf("requests = %d, want 3 (page 1, throttled page 2, page 2)", calls)
	}
	if len(rec.sleeps) != 1 || rec.sleeps[0] != 2*time.Second {
		t.Errorf("sleeps = %v, want [2s]", rec.sleeps)
	}
}

func TestClientDetailEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/applications/42/users":
			w.Write([]byte(`{"application_users": [
				{"user_id": 1001, "license_id": null, "state": "active", "last_used": "2024-03-01T10:00:00Z"},
				{"user_id": 1002, "license_id": 77, "state": "inactive", "last_used": null}
			]}`))
		case "/applications/42/licenses":
			w.Write([]byte(`{"licenses": [{"id": 77, "contract_id": 5}]}`))
		case "/applications/42/installations":
			w.Write([]byte(`{"installations": [
				{"installation_path": "C:/Apps/x", "version": "1.2", "user_id": 1001, "installation_machine_id": 314}
			]}`))
		case "/assets/314":
			if r.URL.Query().Get("include") != "type_fields" {
				t.Errorf("asset query = %q", r.URL.RawQuery)
			}
			w.Write([]byte(`{"asset": {"name": "LAPTOP-314", "description": "<p>Desk 4</p>",
				"type_fields": {"asset_state_1": "In Use", "cost_1": 1200}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL, 100)
	ctx := context.Background()

	users, err := c.ApplicationUsers(ctx, "42")
	if err != nil {
		t.Fatalf("ApplicationUsers() error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].UserID != "1001" || users[0].LicenseID.Ptr() != nil {
		t.Errorf("users[0] = %+v", users[0])
	}
	if lu := users[0].LastUsed.Ptr(); lu == nil || !lu.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("users[0].LastUsed = %v", lu)
	}
	if users[1].LastUsed.Ptr() != nil {
		t.Errorf("users[1].LastUsed = %v, want nil", users[1].LastUsed)
	}

	licenses, err := c.ApplicationLicenses(ctx, "42")
	if err != nil || len(licenses) != 1 || licenses[0].ID != "77" || licenses[0].ContractID != "5" {
		t.Errorf("ApplicationLicenses() = %+v, %v", licenses, err)
	}

	installs, err := c.Installations(ctx, "42")
	if err != nil || len(installs) != 1 || installs[0].MachineID != "314" {
		t.Errorf("Installations() = %+v, %v", installs, err)
	}

	asset, err := c.Asset(ctx, "314")
	if err != nil {
		t.Fatalf("Asset() error: %v", err)
	}
	if asset.Name == nil || *asset.Name != "LAPTOP-314" {
		t.Errorf("asset.Name = %v", asset.Name)
	}
	if s := asset.TypeField("asset_state_1"); s == nil || *s != "In Use" {
		t.Errorf("TypeField(asset_state_1) = %v", s)
	}
	if s := asset.TypeField("cost_1"); s == nil || *s != "1200" {
		t.Errorf("TypeField(cost_1) = %v", s)
	}
	if s := asset.TypeField("absent"); s != nil {
		t.Errorf("TypeField(absent) = %v, want nil", *s)
	}

	if _, err := c.Asset(ctx, "999"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Asset(999) error = %v, want ErrNotFound", err)
	}

	empty, err := c.ApplicationUsers(ctx, "999")
	if err != nil || len(empty) != 0 {
		t.Errorf("ApplicationUsers(999) = %v, %v; want empty, nil", empty, err)
	}
}

func TestClientCreateTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tickets" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var tk Ticket
		if err := json.NewDecoder(r.Body).Decode(&tk); err != nil {
			t.Errorf("decode ticket: %v", err)
		}
		if tk.Subject == "reject" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"ticket": map[string]any{"id": 501, "subject": tk.Subject}})
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL, 100)
	created, err := c.CreateTicket(context.Background(), Ticket{Subject: "Unused software", Description: "report"})
	if err != nil {
		t.Fatalf("CreateTicket() error: %v", err)
	}
	if created.ID != "501" || created.Subject != "Unused software" {
		t.Errorf("created = %+v", created)
	}

	_, err = c.CreateTicket(context.Background(), Ticket{Subject: "reject", Description: "x"})
	if !errs.Is(err, errs.ErrCodeRejected) {
		t.Errorf("CreateTicket(reject) error = %v, want REJECTED", err)
	}
}

func TestClientDeleteApplication(t *testing.T) {
	var deleted, agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = r.URL.Path
			agent = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL, 100)
	if err := c.DeleteApplication(context.Background(), "42"); err != nil {
		t.Fatalf("DeleteApplication() error: %v", err)
	}
	if deleted != "/applications/42" {
		t.Errorf("deleted path = %q", deleted)
	}
	if agent != buildinfo.UserAgent() {
		t.Errorf("User-Agent = %q, want %q", agent, buildinfo.UserAgent())
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`11000765764`, "11000765764"},
		{`"abc"`, "abc"},
		{`null`, ""},
		{`12345678901234567890`, "12345678901234567890"},
	}
	for _, tt := range tests {
		var id ID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
			continue
		}
		if id != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, id, tt.want)
		}
	}

	var id ID
	if err := json.Unmarshal([]byte(`{}`), &id); err == nil {
		t.Error("Unmarshal({}) should fail")
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		in     string
		isZero bool
	}{
		{`"2024-03-01T10:00:00Z"`, false},
		{`"2024-03-01T10:00:00+02:00"`, false},
		{`"2024-03-01"`, false},
		{`null`, true},
		{`""`, true},
		{`"yesterday"`, true},
		{`42`, true},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
		}
		if ts.IsZero() != tt.isZero {
			t.Errorf("Unmarshal(%s) zero = %v, want %v", tt.in, ts.IsZero(), tt.isZero)
		}
	}
}
