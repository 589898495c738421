package protocol_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arangodoc/pkg/core"
	"github.com/aretw0/arangodoc/pkg/protocol"
)

type note struct {
	No   int    `json:"no"`
	Text string `json:"testDescription,omitempty"`
}

func reply(status int, body string) *core.Response {
	return &core.Response{StatusCode: status, Header: http.Header{}, Body: []byte(body)}
}

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		name string
		resp *core.Response
		kind error
	}{
		{"ok", reply(200, `{}`), nil},
		{"created", reply(201, `{}`), nil},
		{"accepted", reply(202, `{}`), nil},
		{"not modified", reply(304, ``), core.ErrNotModified},
		{"precondition", reply(412, `{"error":true,"code":412,"errorNum":1200,"errorMessage":"conflict"}`), core.ErrPreconditionFailed},
		{"not found", reply(404, `{"error":true,"code":404,"errorNum":1202,"errorMessage":"document not found"}`), core.ErrNotFound},
		{"unique constraint", reply(409, `{"error":true,"code":409,"errorNum":1210,"errorMessage":"unique constraint violated"}`), core.ErrServer},
		{"internal", reply(500, `{"error":true,"code":500,"errorNum":4,"errorMessage":"boom"}`), core.ErrServer},
		{"html error page", reply(502, `<html>bad gateway</html>`), core.ErrMalformedResponse},
		{"empty error body", reply(404, ``), core.ErrMalformedResponse},
		{"json but no envelope", reply(500, `{"message":"nope"}`), core.ErrMalformedResponse},
		{"redirect", reply(301, ``), core.ErrMalformedResponse},
		{"nil", nil, core.ErrMalformedResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := protocol.CheckStatus(tc.resp)
			if tc.kind == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestCheckStatus_ServerErrorDetails(t *testing.T) {
	err := protocol.CheckStatus(reply(409, `{"error":true,"code":409,"errorNum":1210,"errorMessage":"unique constraint violated"}`))

	var serverErr *core.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, 409, serverErr.StatusCode)
	assert.Equal(t, 409, serverErr.Code)
	assert.Equal(t, 1210, serverErr.ErrorNum)
	assert.Equal(t, "unique constraint violated", serverErr.Message)
}

func TestDecodeWrite_Silent(t *testing.T) {
	// Whatever the body, a silent write exposes nothing.
	for _, body := range []string{``, `{}`, `{"_key":"a","new":{"no":1}}`, `garbage`} {
		resp, err := protocol.DecodeWrite[note](reply(202, body), true)
		require.NoError(t, err)
		assert.True(t, resp.IsSilent())
		_, ok := resp.(core.Silent[note])
		assert.True(t, ok)
	}
}

func TestDecodeWrite_SilentStillReportsFailures(t *testing.T) {
	_, err := protocol.DecodeWrite[note](reply(404, `{"error":true,"code":404,"errorNum":1202,"errorMessage":"document not found"}`), true)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDecodeWrite_Verbose(t *testing.T) {
	body := `{
		"_id":"c/1","_key":"1","_rev":"_r2","_oldRev":"_r1",
		"old":{"_id":"c/1","_key":"1","_rev":"_r1","no":1,"testDescription":"before"},
		"new":{"_id":"c/1","_key":"1","_rev":"_r2","no":2}
	}`

	resp, err := protocol.DecodeWrite[note](reply(201, body), false)
	require.NoError(t, err)

	v, ok := resp.(core.Verbose[note])
	require.True(t, ok, "got %T", resp)

	require.NotNil(t, v.Header)
	assert.Equal(t, core.DocumentHeader{ID: "c/1", Key: "1", Rev: "_r2"}, *v.Header)
	assert.Equal(t, "_r1", v.OldRev)

	require.NotNil(t, v.Old)
	assert.Equal(t, note{No: 1, Text: "before"}, v.Old.Data)
	assert.Equal(t, "_r1", v.Old.Rev)

	require.NotNil(t, v.New)
	assert.Equal(t, note{No: 2}, v.New.Data)
}

func TestDecodeWrite_OptionalParts(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		resp, err := protocol.DecodeWrite[note](reply(202, `{"_id":"c/1","_key":"1","_rev":"_r"}`), false)
		require.NoError(t, err)
		v := resp.(core.Verbose[note])
		assert.NotNil(t, v.Header)
		assert.Nil(t, v.Old)
		assert.Nil(t, v.New)
	})

	t.Run("no-op write has nothing", func(t *testing.T) {
		resp, err := protocol.DecodeWrite[note](reply(202, `{}`), false)
		require.NoError(t, err)
		v := resp.(core.Verbose[note])
		assert.Nil(t, v.Header)
		assert.Nil(t, v.Old)
		assert.Nil(t, v.New)
	})

	t.Run("null snapshots are absent", func(t *testing.T) {
		resp, err := protocol.DecodeWrite[note](reply(202, `{"_key":"1","old":null,"new":null}`), false)
		require.NoError(t, err)
		v := resp.(core.Verbose[note])
		assert.Nil(t, v.Old)
		assert.Nil(t, v.New)
	})
}

func TestDecodeWrite_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind error
	}{
		{"empty body", ``, core.ErrMalformedResponse},
		{"array body", `[]`, core.ErrMalformedResponse},
		{"key not a string", `{"_key":12}`, core.ErrMalformedResponse},
		{"new not an object", `{"_key":"1","new":"x"}`, core.ErrMalformedResponse},
		{"new does not fit the type", `{"_key":"1","new":{"no":"two"}}`, core.ErrSerialization},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := protocol.DecodeWrite[note](reply(201, tc.body), false)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestDecodeDocument(t *testing.T) {
	doc, err := protocol.DecodeDocument[note](reply(200, `{"_id":"c/1","_key":"1","_rev":"_r","no":1,"testDescription":"read a document"}`))
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Key)
	assert.Equal(t, note{No: 1, Text: "read a document"}, doc.Data)

	_, err = protocol.DecodeDocument[note](reply(200, `not json`))
	assert.ErrorIs(t, err, core.ErrMalformedResponse)

	_, err = protocol.DecodeDocument[note](reply(200, `{"_key":"1","no":"one"}`))
	assert.ErrorIs(t, err, core.ErrSerialization)

	_, err = protocol.DecodeDocument[note](reply(412, `{"error":true,"code":412,"errorNum":1200,"errorMessage":"conflict"}`))
	assert.ErrorIs(t, err, core.ErrPreconditionFailed)

	_, err = protocol.DecodeDocument[note](reply(304, ``))
	assert.ErrorIs(t, err, core.ErrNotModified)
}

func TestDecodeHeader(t *testing.T) {
	h, err := protocol.DecodeHeader(reply(200, `{"_id":"c/1","_key":"1","_rev":"_r","no":1}`))
	require.NoError(t, err)
	assert.Equal(t, core.DocumentHeader{ID: "c/1", Key: "1", Rev: "_r"}, h)

	_, err = protocol.DecodeHeader(reply(404, `{"error":true,"code":404,"errorNum":1202,"errorMessage":"document not found"}`))
	assert.ErrorIs(t, err, core.ErrNotFound)
}
