package go_duka

import (
	"errors"
	"strings"

	"github.com/dukahq/go-duka/consts"
	"github.com/dukahq/go-duka/internal/httpclient"
	"github.com/dukahq/go-duka/storage"
)

// Session holds the API credential in client-side storage so it
// survives restarts and is shared by every service of one client.
//
// Sign-in stores the token here, sign-out removes it.
type Session struct {
	kv storage.Store
}

func NewSession(kv storage.Store) *Session {
	if kv == nil {
		kv = storage.NewMemory()
	}
	return &Session{kv: kv}
}

// Token returns the stored credential, if any.
func (s *Session) Token() (string, bool) {
	if s == nil || s.kv == nil {
		return "", false
	}
	raw, ok, err := s.kv.Get(consts.StorageKeyToken)
	if err != nil || !ok {
		return "", false
	}
	tok := strings.TrimSpace(string(raw))
	return tok, tok != ""
}

func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	return s.kv.Set(consts.StorageKeyToken, []byte(token))
}

// Clear removes the stored credential.
func (s *Session) Clear() error {
	if s == nil || s.kv == nil {
		return nil
	}
	return s.kv.Delete(consts.StorageKeyToken)
}

var _ httpclient.TokenProvider = (*Session)(nil)
