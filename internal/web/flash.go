package web

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	flashCookie = "parkfees_flash"
	flashTTL    = 5 * time.Minute
)

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Kind    string
	Message string
}

type flashClaims struct {
	Kind    string `json:"kind"`
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// Flasher carries notices across a redirect in a signed cookie.
type Flasher struct {
	key []byte
	now func() time.Time
}

// NewFlasher derives the cookie signing key from secret.
func NewFlasher(secret string) (*Flasher, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("parkfees flash notice")), key); err != nil {
		return nil, fmt.Errorf("failed to derive flash key: %w", err)
	}
	return &Flasher{key: key, now: time.Now}, nil
}

// Set stores n for the next request.
func (f *Flasher) Set(w http.ResponseWriter, n Notice) error {
	now := f.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &flashClaims{
		Kind:    n.Kind,
		Message: n.Message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	})

	value, err := token.SignedString(f.key)
	if err != nil {
		return fmt.Errorf("failed to sign flash notice: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending notice, if any, and clears it. Tampered or
// expired cookies are ignored.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) *Notice {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	claims := &flashClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims,
		func(*jwt.Token) (interface{}, error) { return f.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil {
		return nil
	}

	return &Notice{Kind: claims.Kind, Message: claims.Message}
}
