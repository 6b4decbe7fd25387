package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type notConfiguredError struct {
	what string
	env  string
}

func (e notConfiguredError) Error() string {
	return fmt.Sprintf("%s is not configured (set %s or the config file)", e.what, e.env)
}

func errNoSession() error {
	return notConfiguredError{what: "session service", env: "FACTBOARD_SESSION_URL"}
}
