package go_duka

import (
	"testing"

	"github.com/dukahq/go-duka/storage"
)

func TestSessionRoundTrip(t *testing.T) {
	s := NewSession(storage.NewMemory())

	if _, ok := s.Token(); ok {
		t.Fatalf("fresh session must have no token")
	}
	if err := s.SetToken("tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if tok, ok := s.Token(); !ok || tok != "tok-1" {
		t.Fatalf("unexpected token: %q %v", tok, ok)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Fatalf("cleared session must have no token")
	}
}

func TestSessionSharedBetweenClients(t *testing.T) {
	kv := storage.NewMemory()
	s := NewSession(kv)

	first, err := NewClient(WithSession(s))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	second, err := NewClient(WithSession(s))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := first.Session().SetToken("shared"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if tok, ok := second.Session().Token(); !ok || tok != "shared" {
		t.Fatalf("expected shared token, got %q %v", tok, ok)
	}
}
