package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Adnan1921/radnja-tracker/internal/auth"
	"github.com/Adnan1921/radnja-tracker/internal/catalog"
	"github.com/Adnan1921/radnja-tracker/internal/core"
	"github.com/Adnan1921/radnja-tracker/internal/ledger"
	"github.com/Adnan1921/radnja-tracker/internal/ledger/memory"
)

var testClock = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cat := catalog.Default()
	store := memory.NewStore()
	ledgerSvc := ledger.NewService(store, cat, time.UTC,
		ledger.WithNow(func() time.Time { return testClock }))

	users := auth.NewMemoryStore()
	if err := auth.Seed(context.Background(), users, auth.DefaultStaff()); err != nil {
		t.Fatal(err)
	}
	authSvc := auth.NewService(users, 24*time.Hour)

	s := NewServer(":0", ledgerSvc, authSvc, cat)
	ts := httptest.NewServer(s.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})
	return ts
}

func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
	resp, err := http.Post(ts.URL+"/api/login", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out.Token
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token, body string) *http.Response {
	t.Helper()
	var rdr *strings.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	} else {
		rdr = strings.NewReader("")
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	token := login(t, ts, "SanelaBiber", "radnja2024")

	resp := doJSON(t, ts, http.MethodGet, "/api/me", token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatal(err)
	}
	if me.Username != "SanelaBiber" || me.Role != "admin" {
		t.Errorf("me = %+v", me)
	}

	out := doJSON(t, ts, http.MethodPost, "/api/logout", token, "")
	out.Body.Close()
	if out.StatusCode != http.StatusNoContent {
		t.Errorf("logout status = %d", out.StatusCode)
	}

	after := doJSON(t, ts, http.MethodGet, "/api/me", token, "")
	after.Body.Close()
	if after.StatusCode != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d", after.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/login", "application/json",
		strings.NewReader(`{"username":"SanelaBiber","password":"wrong"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestEndpointsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, ts, http.MethodGet, "/api/items", "", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("items without token status = %d", resp.StatusCode)
	}
}

func TestListItems(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "Sajra", "radnja2024")

	resp := doJSON(t, ts, http.MethodGet, "/api/items", token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var items []catalog.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 6 {
		t.Errorf("items = %d, want 6", len(items))
	}
	if items[0].Name != "Torba" {
		t.Errorf("first item = %q", items[0].Name)
	}
}

func TestCreateSale(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	resp := doJSON(t, ts, http.MethodPost, "/api/sales", token,
		`{"itemId":1,"unitPrice":"70","quantity":2,"paymentMethod":"card","date":"2026-03-15"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var sale core.Sale
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		t.Fatal(err)
	}
	if sale.Total.Cents != 14000 || sale.ItemName != "Torba" {
		t.Errorf("sale = %+v", sale)
	}
}

func TestCreateSaleDefaultsQuantity(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	resp := doJSON(t, ts, http.MethodPost, "/api/sales", token,
		`{"itemId":3,"unitPrice":"25","date":"2026-03-15"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sale core.Sale
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		t.Fatal(err)
	}
	if sale.Quantity != 1 {
		t.Errorf("Quantity = %d, want default 1", sale.Quantity)
	}
}

func TestCreateSaleValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	tests := []struct {
		name string
		body string
	}{
		{"explicit zero quantity", `{"itemId":1,"unitPrice":"70","quantity":0,"date":"2026-03-15"}`},
		{"unknown payment method", `{"itemId":1,"unitPrice":"70","paymentMethod":"bitcoin","date":"2026-03-15"}`},
		{"future date", `{"itemId":1,"unitPrice":"70","date":"2026-03-16"}`},
		{"unknown item", `{"itemId":42,"unitPrice":"70","date":"2026-03-15"}`},
		{"malformed body", `{"itemId":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, ts, http.MethodPost, "/api/sales", token, tt.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestLumpTotal(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	resp := doJSON(t, ts, http.MethodPost, "/api/sales/lump", token,
		`{"amount":"350.50","date":"2026-03-15"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sale core.Sale
	if err := json.NewDecoder(resp.Body).Decode(&sale); err != nil {
		t.Fatal(err)
	}
	if sale.ItemID != 0 || sale.ItemName != "Dnevni pazar" || !sale.IsLumpTotal {
		t.Errorf("lump sale = %+v", sale)
	}
}

func TestListSalesScoping(t *testing.T) {
	ts := newTestServer(t)
	adminToken := login(t, ts, "SanelaBiber", "radnja2024")
	limitedToken := login(t, ts, "Sajra", "radnja2024")

	doJSON(t, ts, http.MethodPost, "/api/sales", adminToken,
		`{"itemId":1,"unitPrice":"70","date":"2026-03-15"}`).Body.Close()
	doJSON(t, ts, http.MethodPost, "/api/sales", limitedToken,
		`{"itemId":2,"unitPrice":"20","date":"2026-03-15"}`).Body.Close()

	resp := doJSON(t, ts, http.MethodGet, "/api/sales?date=2026-03-15", limitedToken, "")
	defer resp.Body.Close()
	var sales []core.Sale
	if err := json.NewDecoder(resp.Body).Decode(&sales); err != nil {
		t.Fatal(err)
	}
	if len(sales) != 1 || sales[0].RecordedBy != "Sajra" {
		t.Errorf("limited user sees %v", sales)
	}

	adminResp := doJSON(t, ts, http.MethodGet, "/api/sales?date=2026-03-15", adminToken, "")
	defer adminResp.Body.Close()
	var adminSales []core.Sale
	if err := json.NewDecoder(adminResp.Body).Decode(&adminSales); err != nil {
		t.Fatal(err)
	}
	if len(adminSales) != 2 {
		t.Errorf("admin sees %d sales, want 2", len(adminSales))
	}
}

func TestListSalesEmptyDayReturnsEmptyArray(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	resp := doJSON(t, ts, http.MethodGet, "/api/sales?date=2026-03-01", token, "")
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw) != "[]" {
		t.Errorf("body = %s, want []", raw)
	}
}

func TestDeleteSale(t *testing.T) {
	ts := newTestServer(t)
	adminToken := login(t, ts, "SanelaBiber", "radnja2024")
	limitedToken := login(t, ts, "Sajra", "radnja2024")

	createResp := doJSON(t, ts, http.MethodPost, "/api/sales", adminToken,
		`{"itemId":1,"unitPrice":"70","date":"2026-03-15"}`)
	var sale core.Sale
	if err := json.NewDecoder(createResp.Body).Decode(&sale); err != nil {
		t.Fatal(err)
	}
	createResp.Body.Close()

	// A limited user cannot see whether the record exists.
	forbidden := doJSON(t, ts, http.MethodDelete, "/api/sales/"+sale.ID, limitedToken, "")
	forbidden.Body.Close()
	if forbidden.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user delete status = %d, want 404", forbidden.StatusCode)
	}

	ok := doJSON(t, ts, http.MethodDelete, "/api/sales/"+sale.ID, adminToken, "")
	if ok.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d, want 200", ok.StatusCode)
	}
	var deleted struct {
		Deleted bool `json:"deleted"`
	}
	if err := json.NewDecoder(ok.Body).Decode(&deleted); err != nil {
		t.Fatal(err)
	}
	ok.Body.Close()
	if !deleted.Deleted {
		t.Errorf("delete body = %+v, want {deleted:true}", deleted)
	}

	again := doJSON(t, ts, http.MethodDelete, "/api/sales/"+sale.ID, adminToken, "")
	again.Body.Close()
	if again.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", again.StatusCode)
	}
}

func TestDailyStats(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	doJSON(t, ts, http.MethodPost, "/api/sales", token,
		`{"itemId":1,"unitPrice":"70","quantity":2,"paymentMethod":"card","date":"2026-03-15"}`).Body.Close()
	doJSON(t, ts, http.MethodPost, "/api/sales", token,
		`{"itemId":2,"unitPrice":"20","date":"2026-03-15"}`).Body.Close()

	resp := doJSON(t, ts, http.MethodGet, "/api/stats/daily?date=2026-03-15", token, "")
	defer resp.Body.Close()

	var summary struct {
		Total     float64 `json:"total"`
		Count     int     `json:"count"`
		CashTotal float64 `json:"cashTotal"`
		CardTotal float64 `json:"cardTotal"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatal(err)
	}
	if summary.Count != 2 || summary.Total != 160 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.CashTotal != 20 || summary.CardTotal != 140 {
		t.Errorf("split = %+v", summary)
	}
}

func TestMonthlyStatsValidation(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	for _, query := range []string{
		"year=2026&month=13",
		"year=abc&month=3",
		"year=2026&month=x",
	} {
		resp := doJSON(t, ts, http.MethodGet, "/api/stats/monthly?"+query, token, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, resp.StatusCode)
		}
	}
}

func TestMonthlyReport(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts, "SanelaBiber", "radnja2024")

	doJSON(t, ts, http.MethodPost, "/api/sales", token,
		`{"itemId":1,"unitPrice":"70","date":"2026-03-15"}`).Body.Close()

	resp := doJSON(t, ts, http.MethodGet, "/api/reports/monthly.xlsx?year=2026&month=3", token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "prodaja_2026-03.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
