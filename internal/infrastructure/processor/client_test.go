package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer returns a processor stub that issues bearer tokens and
// dispatches everything else to handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == tokenPath {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "test-key" || pass != "test-secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-bearer",
				"expires_in":   3600,
			})
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-bearer" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))

	client := NewClient(Config{
		BaseURL: srv.URL,
		Key:     "test-key",
		Secret:  "test-secret",
	})

	return srv, client
}

func TestCreateOnDemandAuthorization(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != authorizationPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"_links": map[string]any{
				"self": map[string]string{"href": "https://api.example.com/on-demand-authorizations/abc"},
			},
		})
	})
	defer srv.Close()

	links, err := client.CreateOnDemandAuthorization(context.Background())
	if err != nil {
		t.Fatalf("CreateOnDemandAuthorization() failed: %v", err)
	}
	if links["self"].Href != "https://api.example.com/on-demand-authorizations/abc" {
		t.Errorf("unexpected self link: %+v", links)
	}
}

func TestCreateFundingSource(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/cust-1/funding-sources" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Chase Bank" {
			t.Errorf("unexpected funding source name %v", body["name"])
		}
		if body["plaidToken"] != "processor-token-1" {
			t.Errorf("unexpected processor token %v", body["plaidToken"])
		}

		w.Header().Set("Location", "https://api.example.com/funding-sources/fs-1")
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	links := AuthorizationLinks{"self": {Href: "https://api.example.com/on-demand-authorizations/abc"}}
	loc, err := client.CreateFundingSource(context.Background(), "cust-1", "Chase Bank", "processor-token-1", links)
	if err != nil {
		t.Fatalf("CreateFundingSource() failed: %v", err)
	}
	if loc != "https://api.example.com/funding-sources/fs-1" {
		t.Errorf("CreateFundingSource() = %q, want funding source URL", loc)
	}
}

func TestCreateFundingSource_DuplicateRejected(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "DuplicateResource",
			"message": "Bank already exists",
		})
	})
	defer srv.Close()

	_, err := client.CreateFundingSource(context.Background(), "cust-1", "Chase Bank", "processor-token-1", nil)
	if err == nil {
		t.Fatal("CreateFundingSource() accepted duplicate resource")
	}
}

func TestCreateTransfer(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != transfersPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body struct {
			Links  map[string]Link `json:"_links"`
			Amount TransferAmount  `json:"amount"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Links["source"].Href != "https://api.example.com/funding-sources/src" {
			t.Errorf("unexpected source link %+v", body.Links)
		}
		if body.Amount.Value != "25.00" || body.Amount.Currency != "USD" {
			t.Errorf("unexpected amount %+v", body.Amount)
		}

		w.Header().Set("Location", "https://api.example.com/transfers/tr-1")
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	loc, err := client.CreateTransfer(
		context.Background(),
		"https://api.example.com/funding-sources/src",
		"https://api.example.com/funding-sources/dst",
		TransferAmount{Currency: "USD", Value: "25.00"},
	)
	if err != nil {
		t.Fatalf("CreateTransfer() failed: %v", err)
	}
	if loc != "https://api.example.com/transfers/tr-1" {
		t.Errorf("CreateTransfer() = %q, want transfer URL", loc)
	}
}

func TestAuthToken_Cached(t *testing.T) {
	tokenRequests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == tokenPath {
			tokenRequests++
			json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"_links": map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Key: "k", Secret: "s"})

	for i := 0; i < 3; i++ {
		if _, err := client.CreateOnDemandAuthorization(context.Background()); err != nil {
			t.Fatalf("CreateOnDemandAuthorization() failed: %v", err)
		}
	}

	if tokenRequests != 1 {
		t.Errorf("token endpoint hit %d times, want 1 (token should be cached)", tokenRequests)
	}
}
