package memory_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arangodoc/pkg/adapters/memory"
)

const users = "/_db/test/_api/document/users/"

func setup(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(memory.NewServer())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, header map[string]string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) == 0 {
		return resp.StatusCode, nil
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return resp.StatusCode, out
}

func TestServer_CreateAndRead(t *testing.T) {
	ts := setup(t)

	status, body := do(t, http.MethodPost, ts.URL+users+"?returnNew=true", `{"_key":"ada","name":"Ada"}`, nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "users/ada", body["_id"])
	assert.Equal(t, "ada", body["_key"])
	require.Contains(t, body, "new")
	assert.Equal(t, "Ada", body["new"].(map[string]any)["name"])
	assert.NotContains(t, body, "old")
	assert.NotContains(t, body, "_oldRev")

	status, doc := do(t, http.MethodGet, ts.URL+users+"ada", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ada", doc["name"])
	assert.Equal(t, body["_rev"], doc["_rev"])
}

func TestServer_WaitForSyncStatus(t *testing.T) {
	ts := setup(t)

	status, _ := do(t, http.MethodPost, ts.URL+users+"?waitForSync=true", `{"_key":"a"}`, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, _ = do(t, http.MethodDelete, ts.URL+users+"a?waitForSync=true", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_CreateWithoutTrailingSlash(t *testing.T) {
	ts := setup(t)
	status, body := do(t, http.MethodPost, ts.URL+strings.TrimSuffix(users, "/"), `{}`, nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.NotEmpty(t, body["_key"])
}

func TestServer_Silent(t *testing.T) {
	ts := setup(t)
	status, body := do(t, http.MethodPost, ts.URL+users+"?silent=true&returnNew=true", `{"_key":"s"}`, nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Empty(t, body)
}

func TestServer_OverwriteIgnoreReportsNothing(t *testing.T) {
	ts := setup(t)
	do(t, http.MethodPost, ts.URL+users, `{"_key":"k"}`, nil)

	status, body := do(t, http.MethodPost, ts.URL+users+"?overwriteMode=ignore&returnNew=true&returnOld=true", `{"_key":"k","x":1}`, nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Empty(t, body)
}

func TestServer_OverwriteFlagReplaces(t *testing.T) {
	ts := setup(t)
	_, first := do(t, http.MethodPost, ts.URL+users, `{"_key":"k","a":1}`, nil)

	status, body := do(t, http.MethodPost, ts.URL+users+"?overwrite=true&returnOld=true", `{"_key":"k","b":2}`, nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, first["_rev"], body["_oldRev"])
	assert.Equal(t, float64(1), body["old"].(map[string]any)["a"])
	assert.NotContains(t, body, "new")
}

func TestServer_UniqueConstraint(t *testing.T) {
	ts := setup(t)
	do(t, http.MethodPost, ts.URL+users, `{"_key":"k"}`, nil)

	status, body := do(t, http.MethodPost, ts.URL+users, `{"_key":"k"}`, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, float64(memory.ErrNumUniqueConstraint), body["errorNum"])
}

func TestServer_ConditionalRead(t *testing.T) {
	ts := setup(t)
	_, created := do(t, http.MethodPost, ts.URL+users, `{"_key":"k"}`, nil)
	rev := created["_rev"].(string)

	status, _ := do(t, http.MethodGet, ts.URL+users+"k", "", map[string]string{"If-Match": rev})
	assert.Equal(t, http.StatusOK, status)

	status, body := do(t, http.MethodGet, ts.URL+users+"k", "", map[string]string{"If-Match": "other"})
	assert.Equal(t, http.StatusPreconditionFailed, status)
	assert.Equal(t, float64(memory.ErrNumConflict), body["errorNum"])
	assert.Equal(t, rev, body["_rev"])

	status, body = do(t, http.MethodGet, ts.URL+users+"k", "", map[string]string{"If-None-Match": rev})
	assert.Equal(t, http.StatusNotModified, status)
	assert.Nil(t, body)

	status, _ = do(t, http.MethodGet, ts.URL+users+"k", "", map[string]string{"If-None-Match": "other"})
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_UpdateReplaceRemove(t *testing.T) {
	ts := setup(t)
	_, created := do(t, http.MethodPost, ts.URL+users, `{"_key":"k","a":1,"o":{"x":1}}`, nil)

	status, body := do(t, http.MethodPatch, ts.URL+users+"k?returnNew=true&mergeObjects=false", `{"o":{"y":2}}`, nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, created["_rev"], body["_oldRev"])
	assert.Equal(t, map[string]any{"y": float64(2)}, body["new"].(map[string]any)["o"])

	status, body = do(t, http.MethodPut, ts.URL+users+"k?ignoreRevs=false", `{"_rev":"stale","b":2}`, nil)
	assert.Equal(t, http.StatusPreconditionFailed, status)
	assert.Equal(t, float64(memory.ErrNumConflict), body["errorNum"])

	status, _ = do(t, http.MethodPut, ts.URL+users+"k", `{"_rev":"stale","b":2}`, nil)
	assert.Equal(t, http.StatusAccepted, status)

	status, body = do(t, http.MethodDelete, ts.URL+users+"k?returnOld=true", "", nil)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, float64(2), body["old"].(map[string]any)["b"])

	status, body = do(t, http.MethodDelete, ts.URL+users+"k", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, float64(memory.ErrNumDocumentNotFound), body["errorNum"])
}

func TestServer_BadBodies(t *testing.T) {
	ts := setup(t)

	status, body := do(t, http.MethodPost, ts.URL+users, `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(memory.ErrNumCorruptedJSON), body["errorNum"])

	status, body = do(t, http.MethodPost, ts.URL+users, `[1,2]`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, float64(memory.ErrNumDocumentTypeInvalid), body["errorNum"])

	status, _ = do(t, http.MethodPost, ts.URL+users+"?overwriteMode=sometimes", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServer_EscapedKeys(t *testing.T) {
	ts := setup(t)
	status, _ := do(t, http.MethodPost, ts.URL+users, `{"_key":"a:b@c%d"}`, nil)
	require.Equal(t, http.StatusAccepted, status)

	status, doc := do(t, http.MethodGet, ts.URL+users+"a:b@c%25d", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a:b@c%d", doc["_key"])
}
