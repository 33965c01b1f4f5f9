package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	s := testServer(t, defaultStorage())
	cookie := login(t, s)

	// Seeded fixtures.
	w, resp := doJSON(t, s, http.MethodGet, "/api/users/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, resp["total"])

	// Create.
	w, resp = doJSON(t, s, http.MethodPost, "/api/users/",
		map[string]string{"login": "carol", "password": "hunter2"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "carol", resp["login"])
	assert.Equal(t, "active", resp["status"])
	id, ok := resp["id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)

	// Missing login.
	w, resp = doJSON(t, s, http.MethodPost, "/api/users/",
		map[string]string{"password": "hunter2"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Login is required", resp["message"])

	// Update.
	w, resp = doJSON(t, s, http.MethodPut, "/api/users/", map[string]interface{}{
		"id":       id,
		"login":    "carol",
		"status":   "inactive",
		"groups":   []string{"admins"},
		"policies": []string{"ReadOnly"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inactive", resp["status"])

	// Update of an unknown user.
	w, resp = doJSON(t, s, http.MethodPut, "/api/users/", map[string]interface{}{
		"id": "no-such-id", "login": "x",
	}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", resp["message"])

	// Delete, then the list shrinks back.
	w, resp = doJSON(t, s, http.MethodDelete, "/api/users/",
		map[string]string{"id": id}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted successfully", resp["message"])

	w, resp = doJSON(t, s, http.MethodGet, "/api/users/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, resp["total"])
}

func TestGroupLifecycle(t *testing.T) {
	s := testServer(t, defaultStorage())
	cookie := login(t, s)

	// Duplicate of the seeded group.
	w, resp := doJSON(t, s, http.MethodPost, "/api/groups/",
		map[string]string{"name": "admins"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Group already exists", resp["message"])

	// Create with omitted slices normalized to empty arrays.
	w, resp = doJSON(t, s, http.MethodPost, "/api/groups/",
		map[string]string{"name": "auditors", "description": "Read-only staff"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "auditors", resp["name"])
	assert.NotNil(t, resp["members"])
	assert.NotNil(t, resp["policies"])

	// Update.
	w, resp = doJSON(t, s, http.MethodPut, "/api/groups/", map[string]interface{}{
		"name":     "auditors",
		"members":  []string{"2"},
		"policies": []string{"ReadOnly"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"2"}, resp["members"])

	// Delete.
	w, resp = doJSON(t, s, http.MethodDelete, "/api/groups/",
		map[string]string{"name": "auditors"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Group deleted", resp["message"])

	w, resp = doJSON(t, s, http.MethodDelete, "/api/groups/",
		map[string]string{"name": "auditors"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Group not found", resp["message"])
}

func TestPolicyLifecycle(t *testing.T) {
	s := testServer(t, defaultStorage())
	cookie := login(t, s)

	doc := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{"Effect": "Allow", "Action": []string{"s3:ListBucket"}, "Resource": []string{"arn:aws:s3:::logs"}},
		},
	}

	w, resp := doJSON(t, s, http.MethodPost, "/api/policies/",
		map[string]interface{}{"name": "LogReader", "document": doc}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LogReader", resp["name"])
	assert.Equal(t, "1.0.0", resp["version"])
	checksum, _ := resp["checksum"].(string)
	assert.Len(t, checksum, 12)

	// Updating the document changes the checksum.
	doc["Statement"] = []map[string]interface{}{
		{"Effect": "Deny", "Action": []string{"s3:ListBucket"}, "Resource": []string{"*"}},
	}
	w, resp = doJSON(t, s, http.MethodPut, "/api/policies/",
		map[string]interface{}{"name": "LogReader", "document": doc}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, checksum, resp["checksum"])

	// Delete.
	w, resp = doJSON(t, s, http.MethodDelete, "/api/policies/",
		map[string]string{"name": "LogReader"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Policy deleted successfully", resp["message"])

	w, resp = doJSON(t, s, http.MethodDelete, "/api/policies/",
		map[string]string{"name": "LogReader"}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Policy not found", resp["message"])
}

func TestCreateKeyReturnsSecretOnce(t *testing.T) {
	s := testServer(t, defaultStorage())
	cookie := login(t, s)

	w, resp := doJSON(t, s, http.MethodPost, "/api/keys/",
		map[string]string{"userId": "1"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	accessKey, _ := resp["accessKey"].(string)
	secretKey, _ := resp["secretKey"].(string)
	assert.True(t, strings.HasPrefix(accessKey, "AKIA"))
	assert.Len(t, accessKey, 14)
	assert.True(t, strings.HasPrefix(secretKey, "SECRET"))
	assert.Len(t, secretKey, 26)
	assert.Equal(t, "active", resp["status"])

	// The listing carries metadata only, never the secret.
	w, resp = doJSON(t, s, http.MethodGet, "/api/keys/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, resp["total"])
	for _, it := range resp["items"].([]interface{}) {
		entry := it.(map[string]interface{})
		_, hasSecret := entry["secretKey"]
		assert.False(t, hasSecret)
	}
}

func TestProfiles(t *testing.T) {
	s := testServer(t, defaultStorage())
	cookie := login(t, s)

	w, resp := doJSON(t, s, http.MethodGet, "/api/profiles/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["total"])

	// Auth mode defaults when omitted.
	w, resp = doJSON(t, s, http.MethodPost, "/api/profiles/", map[string]interface{}{
		"label":    "Staging",
		"endpoint": "https://minio.staging.internal:9000",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "aksk", resp["authMode"])

	// Label and endpoint are both mandatory.
	w, resp = doJSON(t, s, http.MethodPost, "/api/profiles/",
		map[string]string{"label": "Broken"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Label and endpoint are required", resp["message"])
}

func TestPermissionCheck(t *testing.T) {
	s := testServer(t, defaultStorage())
	cookie := login(t, s)

	// Seeded ReadOnly policy allows s3:GetObject on any resource.
	w, resp := doJSON(t, s, http.MethodPost, "/api/permissions/check",
		map[string]string{"action": "s3:GetObject", "resource": "arn:aws:s3:::alpha/report.csv"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["allowed"])
	assert.Contains(t, resp["reason"], "ReadOnly")

	// Nothing grants bucket deletion.
	w, resp = doJSON(t, s, http.MethodPost, "/api/permissions/check",
		map[string]string{"action": "s3:DeleteBucket", "resource": "arn:aws:s3:::alpha"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["allowed"])

	// Both fields are mandatory.
	w, resp = doJSON(t, s, http.MethodPost, "/api/permissions/check",
		map[string]string{"action": "s3:GetObject"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Action and resource are required", resp["message"])
}
