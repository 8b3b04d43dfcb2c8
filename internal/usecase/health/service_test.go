package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func providers(embErr, genErr error) map[string]ProviderChecker {
	return map[string]ProviderChecker{
		"embedding":  &mockChecker{err: embErr},
		"generation": &mockChecker{err: genErr},
	}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, providers(nil, nil))
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"database", "embedding", "generation"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, providers(nil, nil))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks["embedding"])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockDBPinger{}, providers(errors.New("timeout"), nil))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
	if r.Checks["generation"] != CheckOK {
		t.Errorf("expected generation %q, got %q", CheckOK, r.Checks["generation"])
	}
}

func TestCheck_GenerationError(t *testing.T) {
	svc := New(&mockDBPinger{}, providers(nil, errors.New("quota exceeded")))
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["generation"] != CheckError {
		t.Errorf("expected generation %q, got %q", CheckError, r.Checks["generation"])
	}
	if r.Checks["database"] != CheckOK || r.Checks["embedding"] != CheckOK {
		t.Errorf("only generation should fail, got %v", r.Checks)
	}
}

func TestCheck_AllFail(t *testing.T) {
	svc := New(
		&mockDBPinger{err: errors.New("db down")},
		providers(errors.New("emb down"), errors.New("gen down")),
	)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	for _, name := range []string{"database", "embedding", "generation"} {
		if r.Checks[name] != CheckError {
			t.Errorf("expected %s error", name)
		}
	}
}

func TestCheck_NoProviders(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 || r.Checks["database"] != CheckOK {
		t.Errorf("expected only the database check, got %v", r.Checks)
	}
}

func TestCheck_NilProviderSkipped(t *testing.T) {
	svc := New(&mockDBPinger{}, map[string]ProviderChecker{"embedding": nil})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["embedding"]; ok {
		t.Error("nil provider should not produce a check")
	}
}
