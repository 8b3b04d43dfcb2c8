package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ownerEchoHandler(t *testing.T, wantOwner string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := ownerFromContext(r.Context()); got != wantOwner {
			t.Errorf("owner in context: got %q, want %q", got, wantOwner)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func testTenants() map[string]string {
	return map[string]string{
		"token-alice": "alice",
		"token-bob":   "bob",
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	mw := BearerAuthMiddleware(testTenants())
	handler := mw(ownerEchoHandler(t, ""))

	req := httptest.NewRequest("GET", "/files", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeUnauthorized)
	}
}

func TestAuthMiddleware_BasicScheme_401(t *testing.T) {
	mw := BearerAuthMiddleware(testTenants())
	handler := mw(ownerEchoHandler(t, ""))

	req := httptest.NewRequest("GET", "/files", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_UnknownToken_401(t *testing.T) {
	mw := BearerAuthMiddleware(testTenants())
	handler := mw(ownerEchoHandler(t, ""))

	req := httptest.NewRequest("GET", "/files", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unknown token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ResolvesOwner(t *testing.T) {
	mw := BearerAuthMiddleware(testTenants())

	for token, owner := range testTenants() {
		handler := mw(ownerEchoHandler(t, owner))
		req := httptest.NewRequest("GET", "/files", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("token %s: got %d, want %d", token, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_BlankEntriesIgnored(t *testing.T) {
	mw := BearerAuthMiddleware(map[string]string{"": "alice", "token": ""})
	handler := mw(ownerEchoHandler(t, ""))

	for _, token := range []string{"", "token"} {
		req := httptest.NewRequest("GET", "/files", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("blank entry token %q: got %d, want %d", token, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	mw := BearerAuthMiddleware(testTenants())
	handler := mw(ownerEchoHandler(t, ""))

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
