// Package iam defines the identity and access management entities the
// console administers (users, groups, policies, access keys, connection
// profiles) and the repository contract all storage drivers implement.
package iam

import "time"

// UserStatus is the lifecycle state of a console user.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserBlocked  UserStatus = "blocked"
)

// KeyStatus is the lifecycle state of an access key.
type KeyStatus string

const (
	KeyActive   KeyStatus = "active"
	KeyInactive KeyStatus = "inactive"
	KeyExpired  KeyStatus = "expired"
)

// AuthMode selects how a connection profile authenticates against the
// storage backend. Only AuthModeAccessKey has a login flow in this
// console; the other modes are carried as profile configuration.
type AuthMode string

const (
	AuthModeAccessKey AuthMode = "aksk"
	AuthModeOIDC      AuthMode = "oidc"
	AuthModeSAML      AuthMode = "saml"
	AuthModeLDAP      AuthMode = "ldap"
)

// User is a console-managed identity.
type User struct {
	ID       string                 `json:"id"`
	Login    string                 `json:"login"`
	Status   UserStatus             `json:"status"`
	Groups   []string               `json:"groups"`
	Policies []string               `json:"policies"`
	Keys     []KeyMeta              `json:"keys"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Group collects users under a shared set of policies.
type Group struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
	Policies    []string `json:"policies"`
}

// Statement is a single effect/action/resource rule inside a policy
// document. Field names follow the IAM JSON policy grammar.
type Statement struct {
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

// PolicyDocument is an IAM-style policy body.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Policy is a named policy with its document and bookkeeping fields.
// Checksum is derived from the document content and changes on every
// document update.
type Policy struct {
	Name     string            `json:"name"`
	Document PolicyDocument    `json:"document"`
	Checksum string            `json:"checksum"`
	Version  string            `json:"version"`
	Labels   map[string]string `json:"labels"`
}

// KeyMeta is the stored metadata of an issued access key. The secret key
// is never persisted; it is returned exactly once at issuance.
type KeyMeta struct {
	AccessKey string     `json:"accessKey"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Status    KeyStatus  `json:"status"`
}

// Profile is a named connection configuration for one storage backend.
type Profile struct {
	Label        string   `json:"label"`
	Endpoint     string   `json:"endpoint"`
	Region       string   `json:"region"`
	UseSSL       bool     `json:"useSSL"`
	VerifyTLS    bool     `json:"verifyTLS"`
	AuthMode     AuthMode `json:"authMode"`
	IssuerURL    string   `json:"issuerURL,omitempty"`
	ClientID     string   `json:"clientId,omitempty"`
	ClientSecret string   `json:"clientSecret,omitempty"`
}

// UserUpdate carries the fields a user update replaces. Keys and
// metadata are preserved across updates.
type UserUpdate struct {
	Login    string     `json:"login"`
	Status   UserStatus `json:"status"`
	Groups   []string   `json:"groups"`
	Policies []string   `json:"policies"`
}

// PermissionCheck is the outcome of evaluating one action against one
// resource for the stored policies.
type PermissionCheck struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Allowed  bool   `json:"allowed"`
	Reason   string `json:"reason,omitempty"`
}
