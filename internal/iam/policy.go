package iam

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// DocumentChecksum derives a stable content checksum for a policy
// document. Any change to the document changes the checksum.
func DocumentChecksum(doc PolicyDocument) string {
	raw, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:12]
}

// Evaluate performs a shallow allow/deny check of action on resource
// against the given policies. It is not a policy engine: the first
// Allow statement whose action and resource patterns match wins, and
// there is no deny precedence, condition handling, or principal
// scoping. The console's permission screen only needs this first-order
// answer.
func Evaluate(policies []Policy, action, resource string) PermissionCheck {
	for _, p := range policies {
		for _, st := range p.Document.Statement {
			if st.Effect != "Allow" {
				continue
			}
			if matchAny(st.Action, action) && matchAny(st.Resource, resource) {
				return PermissionCheck{
					Action:   action,
					Resource: resource,
					Allowed:  true,
					Reason:   "Allowed by policy " + p.Name,
				}
			}
		}
	}
	return PermissionCheck{
		Action:   action,
		Resource: resource,
		Allowed:  false,
		Reason:   "No policy allows this action",
	}
}

// matchAny reports whether value matches any pattern in patterns.
// Patterns support a trailing "*" wildcard ("s3:*", "*").
func matchAny(patterns []string, value string) bool {
	for _, p := range patterns {
		if p == "*" || p == value {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok && strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
