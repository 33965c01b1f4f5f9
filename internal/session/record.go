// Package session implements the encrypted, cookie-backed session the
// console uses instead of a server-side session table. The whole record
// round-trips through the client inside a sealed cookie: the codec
// encrypts and authenticates it, the store binds it to the HTTP
// request/response pair.
package session

import "github.com/koustreak/z3console/internal/iam"

// Credentials is the access/secret key pair validated at login. It only
// ever lives inside the sealed cookie payload and is never echoed back
// to the client.
type Credentials struct {
	AccessKey string `json:"accessKey"`
	SecretKey string `json:"secretKey"`
}

// Record is the session state carried by the cookie. When User is set,
// Profile and Credentials are guaranteed to be present and to have been
// validated against the profile endpoint at login.
type Record struct {
	User        *iam.User    `json:"user,omitempty"`
	Profile     iam.Profile  `json:"profile"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// Authenticated reports whether the record carries a logged-in user.
func (r Record) Authenticated() bool {
	return r.User != nil
}
