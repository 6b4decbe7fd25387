package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const formTokenTTL = 2 * time.Hour

// formToken is the signed payload embedded in every POST form.
type formToken struct {
	Exp int64  `json:"exp"`
	N   string `json:"n"`
}

func newSecretKey() ([]byte, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func newNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func signToken(secret []byte, payload formToken) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return p + "." + sig, nil
}

func newFormToken(secret []byte, now time.Time) (string, error) {
	n, err := newNonce()
	if err != nil {
		return "", err
	}
	return signToken(secret, formToken{Exp: now.Add(formTokenTTL).Unix(), N: n})
}

func verifyFormToken(secret []byte, token string, now time.Time) error {
	token = strings.TrimSpace(token)
	p, sig, ok := strings.Cut(token, ".")
	if !ok || p == "" || sig == "" {
		return errors.New("invalid token format")
	}

	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	want := mac.Sum(nil)
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(want, got) {
		return errors.New("invalid token signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return errors.New("invalid token payload")
	}
	var ft formToken
	if err := json.Unmarshal(raw, &ft); err != nil {
		return errors.New("invalid token payload")
	}
	if ft.Exp == 0 {
		return errors.New("token missing exp")
	}
	if now.Unix() > ft.Exp {
		return errors.New("token expired")
	}
	return nil
}
