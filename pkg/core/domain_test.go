package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arangodoc/pkg/core"
)

type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Age   int    `json:"age"`
}

func TestDocument_MarshalFlattensSystemAttributes(t *testing.T) {
	doc := core.NewDocumentWithKey("alice", UserProfile{Name: "Alice", Age: 30})

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, "alice", fields["_key"])
	assert.Equal(t, "Alice", fields["name"])
	assert.EqualValues(t, 30, fields["age"])
	assert.NotContains(t, fields, "_id", "empty attributes must not be sent")
	assert.NotContains(t, fields, "_rev")
}

func TestDocument_MarshalKeepsPayloadSystemAttributes(t *testing.T) {
	// A map payload may carry its own _rev; the header must not erase it.
	doc := core.NewDocument(map[string]any{"no": 2, "_rev": "_abc"})

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"no":2,"_rev":"_abc"}`, string(raw))
}

func TestDocument_MarshalRejectsNonObjectPayload(t *testing.T) {
	_, err := json.Marshal(core.NewDocument([]int{1, 2}))
	assert.Error(t, err)
}

func TestDocument_MarshalNilPayload(t *testing.T) {
	raw, err := json.Marshal(core.NewDocumentWithKey[map[string]any]("k", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_key":"k"}`, string(raw))
}

func TestDocument_Unmarshal(t *testing.T) {
	body := `{"_id":"users/alice","_key":"alice","_rev":"_r1","name":"Alice","age":30}`

	t.Run("typed payload", func(t *testing.T) {
		var doc core.Document[UserProfile]
		require.NoError(t, json.Unmarshal([]byte(body), &doc))

		assert.Equal(t, core.DocumentHeader{ID: "users/alice", Key: "alice", Rev: "_r1"}, doc.DocumentHeader)
		assert.Equal(t, UserProfile{Name: "Alice", Age: 30}, doc.Data)
	})

	t.Run("map payload has system attributes stripped", func(t *testing.T) {
		var doc core.Document[map[string]any]
		require.NoError(t, json.Unmarshal([]byte(body), &doc))

		assert.Equal(t, "alice", doc.Key)
		assert.Len(t, doc.Data, 2)
		assert.NotContains(t, doc.Data, "_key")
	})

	t.Run("map payload keeps large integers", func(t *testing.T) {
		var doc core.Document[map[string]any]
		require.NoError(t, json.Unmarshal([]byte(`{"_key":"k","n":9007199254740993}`), &doc))

		assert.Equal(t, json.Number("9007199254740993"), doc.Data["n"])

		out, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{"_key":"k","n":9007199254740993}`, string(out))
		assert.Contains(t, string(out), "9007199254740993")
	})

	t.Run("payload type mismatch", func(t *testing.T) {
		var doc core.Document[UserProfile]
		err := json.Unmarshal([]byte(`{"_key":"a","age":"thirty"}`), &doc)
		assert.Error(t, err)
	})

	t.Run("not an object", func(t *testing.T) {
		var doc core.Document[UserProfile]
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &doc))
		assert.Error(t, json.Unmarshal([]byte(`null`), &doc))
	})
}

func TestDocumentHeader_IsZero(t *testing.T) {
	assert.True(t, core.DocumentHeader{}.IsZero())
	assert.False(t, core.DocumentHeader{Rev: "_x"}.IsZero())
}
