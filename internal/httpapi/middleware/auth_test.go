package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func do(h http.Handler, header, value string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireAdmin(t *testing.T) {
	keys := Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key"}}
	h := RequireAdmin(keys)(okHandler)

	cases := []struct {
		name, header, value string
		want                int
	}{
		{"admin via X-API-Key", "X-API-Key", "adm_key", http.StatusOK},
		{"admin via bearer", "Authorization", "Bearer adm_key", http.StatusOK},
		{"public key", "X-API-Key", "pub_key", http.StatusForbidden},
		{"unknown key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"missing key", "", "", http.StatusUnauthorized},
	}
	for _, c := range cases {
		if got := do(h, c.header, c.value); got != c.want {
			t.Fatalf("%s: want %d got %d", c.name, c.want, got)
		}
	}
}

func TestRequireAny(t *testing.T) {
	keys := Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key"}}
	h := RequireAny(keys)(okHandler)

	if got := do(h, "X-API-Key", "pub_key"); got != http.StatusOK {
		t.Fatalf("public key should pass; got %d", got)
	}
	if got := do(h, "authorization", "bearer adm_key"); got != http.StatusOK {
		t.Fatalf("admin key should pass; got %d", got)
	}
	if got := do(h, "", ""); got != http.StatusUnauthorized {
		t.Fatalf("missing key should be 401; got %d", got)
	}
}

func TestNoKeysConfiguredIsOpen(t *testing.T) {
	if got := do(RequireAny(Keys{})(okHandler), "", ""); got != http.StatusOK {
		t.Fatalf("RequireAny without keys should be open; got %d", got)
	}
	if got := do(RequireAdmin(Keys{Public: []string{"p"}})(okHandler), "", ""); got != http.StatusOK {
		t.Fatalf("RequireAdmin without admin keys should be open; got %d", got)
	}
}
