package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ghuser/marketledger/pkg/app"
	"github.com/ghuser/marketledger/pkg/auth"
	"github.com/ghuser/marketledger/pkg/config"
	"github.com/ghuser/marketledger/pkg/logger"
	"github.com/ghuser/marketledger/services/market/application/api"
	"github.com/ghuser/marketledger/services/market/domain/models"
	"github.com/ghuser/marketledger/services/market/infrastructure/ledger"
	"github.com/ghuser/marketledger/services/market/infrastructure/token"
)

const unit = 1_000_000

// emptyStore is a sessions.Store that always yields a fresh session, so the
// X-Market-Account header fallback drives authentication in tests.
type emptyStore struct{}

func (emptyStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.NewSession(emptyStore{}, name), nil
}

func (emptyStore) New(_ *http.Request, name string) (*sessions.Session, error) {
	return sessions.NewSession(emptyStore{}, name), nil
}

func (emptyStore) Save(_ *http.Request, _ http.ResponseWriter, _ *sessions.Session) error {
	return nil
}

type fixture struct {
	router *chi.Mux
	token  *token.Memory
	market models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		AdminAccounts: "admin",
		LedgerAccount: "market-ledger",
		FeePercentage: 2,
		TokenUnit:     unit,
		LogLevel:      "error",
	}
	log := logger.New(cfg)

	tok := token.NewMemory(cfg.TokenUnit)
	market, _ := models.NewAccount(cfg.LedgerAccount)
	admin, _ := models.NewAccount(cfg.FeeRecipient())

	l, err := ledger.New(tok, auth.NewAdminSet(cfg.Admins()), market, admin, cfg.FeePercentage)
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}

	a := &app.Application{
		Config:       cfg,
		Logger:       log,
		SessionStore: emptyStore{},
		Ledger:       l,
		Token:        tok,
	}

	r := chi.NewRouter()
	api.MarketRoutes(r, a)

	return &fixture{router: r, token: tok, market: market}
}

func (f *fixture) do(t *testing.T, method, path, account, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if account != "" {
		req.Header.Set("X-Market-Account", account)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) listItem(t *testing.T, account string, price uint64) uint64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Painting","description":"Oil on canvas","location":"Berlin","price":%d}`, price)
	rr := f.do(t, http.MethodPost, "/items", account, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("list item: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ID uint64 `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.ID
}

func (f *fixture) fund(account string, amount uint64) {
	acc, _ := models.NewAccount(account)
	f.token.Mint(acc, amount)
	f.token.Approve(acc, f.market, amount)
}

func TestPostItems(t *testing.T) {
	f := newFixture(t)

	t.Run("requires authentication", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/items", "", `{"name":"x","location":"y","price":1000000}`)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("creates item with dense ids", func(t *testing.T) {
		first := f.listItem(t, "alice", 2*unit)
		second := f.listItem(t, "alice", 3*unit)
		if first != 0 || second != 1 {
			t.Fatalf("expected ids 0 and 1, got %d and %d", first, second)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/items", "alice", `{"price":1000000}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("rejects price below one token", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/items", "alice", `{"name":"x","location":"y","price":999999}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
		}
	})
}

func TestGetItem(t *testing.T) {
	f := newFixture(t)
	id := f.listItem(t, "alice", 2*unit)

	t.Run("returns item with history", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, fmt.Sprintf("/items/%d", id), "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Owner   string `json:"owner"`
			Listed  bool   `json:"listed"`
			History []struct {
				Kind string `json:"kind"`
			} `json:"history"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Owner != "alice" || !resp.Listed {
			t.Errorf("unexpected item: %+v", resp)
		}
		if len(resp.History) != 1 || resp.History[0].Kind != "ADD" {
			t.Errorf("expected single ADD record, got %+v", resp.History)
		}
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/items/99", "", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/items/abc", "", "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestBuyItem(t *testing.T) {
	f := newFixture(t)
	id := f.listItem(t, "alice", 2*unit)

	t.Run("insufficient allowance is 402", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/buy", id), "bob", "")
		if rr.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("successful purchase", func(t *testing.T) {
		f.fund("bob", 2*unit)
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/buy", id), "bob", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Seller string `json:"seller"`
			Fee    uint64 `json:"fee"`
			Item   struct {
				Owner  string `json:"owner"`
				Listed bool   `json:"listed"`
			} `json:"item"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Seller != "alice" || resp.Item.Owner != "bob" || resp.Item.Listed {
			t.Errorf("unexpected purchase: %+v", resp)
		}
		wantFee := uint64(2 * unit / 100 * 2)
		if resp.Fee != wantFee {
			t.Errorf("fee: got %d, want %d", resp.Fee, wantFee)
		}
	})

	t.Run("second buy is 409", func(t *testing.T) {
		f.fund("carol", 2*unit)
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/buy", id), "carol", "")
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
	})
}

func TestUnlistRelist(t *testing.T) {
	f := newFixture(t)
	id := f.listItem(t, "alice", 3*unit)

	t.Run("non-owner unlist is 403", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/unlist", id), "bob", "")
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("owner unlists", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/unlist", id), "alice", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Listed bool   `json:"listed"`
			Price  uint64 `json:"price"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if resp.Listed || resp.Price != 0 {
			t.Errorf("expected unlisted zero-price item, got %+v", resp)
		}
	})

	t.Run("double unlist is 409", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/unlist", id), "alice", "")
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
	})

	t.Run("owner relists with new location and price", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/relist", id), "alice", `{"location":"Paris","price":4000000}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Listed   bool   `json:"listed"`
			Location string `json:"location"`
			Price    uint64 `json:"price"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if !resp.Listed || resp.Location != "Paris" || resp.Price != 4*unit {
			t.Errorf("unexpected relisted item: %+v", resp)
		}
	})

	t.Run("relist while listed is 409", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/relist", id), "alice", `{"location":"Paris","price":4000000}`)
		if rr.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rr.Code)
		}
	})

	t.Run("relist unknown item is 404", func(t *testing.T) {
		rr := f.do(t, http.MethodPost, "/items/99/relist", "alice", `{"location":"Paris","price":4000000}`)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

func TestCountItems(t *testing.T) {
	f := newFixture(t)
	f.listItem(t, "alice", 2*unit)
	f.listItem(t, "bob", 2*unit)

	rr := f.do(t, http.MethodGet, "/items/count", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Count uint64 `json:"count"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Count != 2 {
		t.Errorf("count: got %d, want 2", resp.Count)
	}
}

func TestFeeEndpoints(t *testing.T) {
	f := newFixture(t)
	id := f.listItem(t, "alice", 250*unit)

	t.Run("get fee percentage", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/fee", "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Percentage uint64 `json:"percentage"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if resp.Percentage != 2 {
			t.Errorf("percentage: got %d, want 2", resp.Percentage)
		}
	})

	t.Run("quote fee truncates to whole tokens", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, fmt.Sprintf("/items/%d/fee", id), "", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Fee uint64 `json:"fee"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if want := uint64(250 * unit / 100 * 2); resp.Fee != want {
			t.Errorf("fee: got %d, want %d", resp.Fee, want)
		}
	})

	t.Run("set fee requires admin", func(t *testing.T) {
		rr := f.do(t, http.MethodPut, "/fee", "alice", `{"percentage":5}`)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("admin sets fee", func(t *testing.T) {
		rr := f.do(t, http.MethodPut, "/fee", "admin", `{"percentage":5}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		rr = f.do(t, http.MethodGet, "/fee", "", "")
		var resp struct {
			Percentage uint64 `json:"percentage"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if resp.Percentage != 5 {
			t.Errorf("percentage after change: got %d, want 5", resp.Percentage)
		}
	})

	t.Run("fee above bound is 422", func(t *testing.T) {
		rr := f.do(t, http.MethodPut, "/fee", "admin", `{"percentage":11}`)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rr.Code)
		}
	})
}

func TestOwnedItems(t *testing.T) {
	f := newFixture(t)
	id := f.listItem(t, "alice", 2*unit)

	t.Run("requires authentication", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/accounts/alice/items", "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("own index lists own items", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/accounts/alice/items", "alice", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Items []struct {
				ID uint64 `json:"id"`
			} `json:"items"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if len(resp.Items) != 1 || resp.Items[0].ID != id {
			t.Errorf("unexpected items: %+v", resp.Items)
		}
	})

	t.Run("foreign caller sees empty result for another index", func(t *testing.T) {
		rr := f.do(t, http.MethodGet, "/accounts/alice/items", "bob", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp struct {
			Items []struct {
				ID uint64 `json:"id"`
			} `json:"items"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if len(resp.Items) != 0 {
			t.Errorf("expected empty result, got %+v", resp.Items)
		}
	})

	t.Run("buyer appears in seller index after purchase", func(t *testing.T) {
		f.fund("bob", 2*unit)
		rr := f.do(t, http.MethodPost, fmt.Sprintf("/items/%d/buy", id), "bob", "")
		if rr.Code != http.StatusOK {
			t.Fatalf("buy: expected 200, got %d", rr.Code)
		}

		rr = f.do(t, http.MethodGet, "/accounts/bob/items", "bob", "")
		var resp struct {
			Items []struct {
				ID uint64 `json:"id"`
			} `json:"items"`
		}
		_ = json.NewDecoder(rr.Body).Decode(&resp)
		if len(resp.Items) != 1 || resp.Items[0].ID != id {
			t.Errorf("expected bob to own item %d, got %+v", id, resp.Items)
		}
	})
}
