package model

import (
	"errors"
	"fmt"
	"net/url"
	"unicode/utf16"
)

// MaxFactTextLen is the longest fact text accepted for submission.
const MaxFactTextLen = 200

var ErrInvalidFact = errors.New("invalid fact")

// ValidHTTPURL reports whether s parses as an absolute URL with an http or https scheme.
func ValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// TextLen counts UTF-16 code units, as the browser form counter does: a
// character outside the Basic Multilingual Plane counts twice.
func TextLen(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// ValidateNewFact returns an error wrapping ErrInvalidFact describing the first failed check.
func ValidateNewFact(nf NewFact) error {
	switch {
	case nf.Text == "":
		return fmt.Errorf("%w: text is empty", ErrInvalidFact)
	case TextLen(nf.Text) > MaxFactTextLen:
		return fmt.Errorf("%w: text is longer than %d characters", ErrInvalidFact, MaxFactTextLen)
	case !ValidHTTPURL(nf.Source):
		return fmt.Errorf("%w: source must be an http(s) URL", ErrInvalidFact)
	case nf.Category == "":
		return fmt.Errorf("%w: category is empty", ErrInvalidFact)
	}
	return nil
}
