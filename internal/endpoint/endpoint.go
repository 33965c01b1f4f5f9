// Package endpoint turns a configured or profile-stored storage endpoint
// URL into the (host, port, TLS) triple the MinIO client needs.
//
// Parsing is deliberately forgiving: a malformed endpoint never produces
// an error, it degrades through three tiers down to the local-development
// default. Existing deployments rely on this ordering, so it must not be
// tightened without a compatibility break.
package endpoint

import (
	"net/url"
	"regexp"
	"strconv"
)

// DefaultHost, DefaultPort and DefaultTLS are the tier-3 hard fallback,
// matching a stock local MinIO.
const (
	DefaultHost = "localhost"
	DefaultPort = 9000
	DefaultTLS  = false
)

// Endpoint is a parsed storage endpoint.
type Endpoint struct {
	Host   string
	Port   int
	UseTLS bool
}

// Addr returns the host:port form used by the MinIO SDK.
func (e Endpoint) Addr() string {
	return e.Host + ":" + strconv.Itoa(e.Port)
}

// permissive tier-2 match: scheme://host[:port], anything after is ignored.
var endpointPattern = regexp.MustCompile(`^(https?)://([^:/]+)(?::(\d+))?`)

// Parse resolves raw into an Endpoint using a three-tier fallback:
//
//  1. strict URL parsing; the explicit port wins, otherwise 443 for
//     https and 80 for everything else,
//  2. a permissive scheme://host[:port] pattern match with the same
//     port defaulting,
//  3. the hard default (localhost, 9000, no TLS).
//
// Parse never fails. Schemeless input — a bare host or a
// protocol-relative //host:port — is rejected by both tier 1 (explicit
// http/https scheme required) and tier 2 (pattern requires a scheme)
// and therefore resolves to the hard default.
func Parse(raw string) Endpoint {
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" && (u.Scheme == "http" || u.Scheme == "https") {
		secure := u.Scheme == "https"
		port := defaultPort(secure)
		if p := u.Port(); p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				port = n
			}
		}
		return Endpoint{Host: u.Hostname(), Port: port, UseTLS: secure}
	}

	if m := endpointPattern.FindStringSubmatch(raw); m != nil {
		secure := m[1] == "https"
		port := defaultPort(secure)
		if m[3] != "" {
			if n, err := strconv.Atoi(m[3]); err == nil {
				port = n
			}
		}
		return Endpoint{Host: m[2], Port: port, UseTLS: secure}
	}

	return Endpoint{Host: DefaultHost, Port: DefaultPort, UseTLS: DefaultTLS}
}

func defaultPort(secure bool) int {
	if secure {
		return 443
	}
	return 80
}
