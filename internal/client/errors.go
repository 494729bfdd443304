package client

import (
	"errors"
	"fmt"
)

// ErrInvalidShape marks a schedule response missing its totalGames or dates
// keys. The caller treats it as an unsuccessful fetch and skips the pass
// instead of misreading the payload as an empty season.
var ErrInvalidShape = errors.New("schedule response missing totalGames or dates")

// ErrorKind buckets non-2xx feed responses.
type ErrorKind string

const (
	KindClient     ErrorKind = "client"     // 4xx
	KindServer     ErrorKind = "server"     // 5xx
	KindUnexpected ErrorKind = "unexpected" // anything else that is not 200
)

// StatusError is a classified non-OK response from the feed.
type StatusError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: got a %d %s error status code", e.URL, e.StatusCode, e.Kind)
}

func classifyStatus(code int, url string) *StatusError {
	kind := KindUnexpected
	switch {
	case code >= 400 && code <= 499:
		kind = KindClient
	case code >= 500 && code <= 599:
		kind = KindServer
	}
	return &StatusError{Kind: kind, StatusCode: code, URL: url}
}
