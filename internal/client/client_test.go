package client

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/randstream/internal/config"
	"github.com/lox/randstream/internal/protocol"
	"github.com/lox/randstream/internal/server"
	"github.com/lox/randstream/pcg"
)

const testConfig = `
stream "scalar" {
  initstate = 42
  initseq   = 54
}

stream "grid" {
  seed  = 7
  shape = [2, 2]
}
`

func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg, err := config.Parse([]byte(testConfig), "test.hcl")
	require.NoError(t, err)

	srv, err := server.New(cfg, log.New(io.Discard), quartz.NewMock(t))
	require.NoError(t, err)

	httpSrv := httptest.NewServer(srv)
	t.Cleanup(httpSrv.Close)

	c := New(httpSrv.URL, log.New(io.Discard))
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })

	return c
}

func TestClientDraw(t *testing.T) {
	c := newTestClient(t)

	result, err := c.Draw(protocol.DrawRequest{Stream: "scalar", Shape: []int{3}})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, result.Shape)

	want := pcg.New(42, 54).Random(3)
	assert.Equal(t, want.Data(), result.Values)
}

func TestClientStateRestore(t *testing.T) {
	c := newTestClient(t)

	checkpoint, err := c.State("grid")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, checkpoint.Shape)
	require.Len(t, checkpoint.States, 4)

	first, err := c.Draw(protocol.DrawRequest{Stream: "grid", Shape: []int{2}})
	require.NoError(t, err)

	require.NoError(t, c.Restore("grid", checkpoint.States))

	replay, err := c.Draw(protocol.DrawRequest{Stream: "grid", Shape: []int{2}})
	require.NoError(t, err)
	assert.Equal(t, first.Values, replay.Values)
}

func TestClientAdvanceDistance(t *testing.T) {
	c := newTestClient(t)

	before, err := c.State("scalar")
	require.NoError(t, err)

	require.NoError(t, c.Advance("scalar", 999))

	distances, err := c.Distance("scalar", before.States)
	require.NoError(t, err)
	assert.Equal(t, []int64{-999}, distances)
}

func TestClientList(t *testing.T) {
	c := newTestClient(t)

	streams, err := c.List()
	require.NoError(t, err)
	require.Len(t, streams, 2)
}

func TestClientServerError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Draw(protocol.DrawRequest{Stream: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), protocol.CodeUnknownStream)
}

func TestClientNotConnected(t *testing.T) {
	c := New("http://localhost:0", log.New(io.Discard))
	_, err := c.List()
	require.Error(t, err)
}
