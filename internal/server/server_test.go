package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/randstream/internal/config"
	"github.com/lox/randstream/internal/protocol"
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

func newTestServer(t *testing.T) (*Server, *websocket.Conn) {
	t.Helper()

	cfg, err := config.Parse([]byte(testConfig), "test.hcl")
	require.NoError(t, err)

	srv, err := New(cfg, log.New(io.Discard), quartz.NewMock(t))
	require.NoError(t, err)

	httpSrv := httptest.NewServer(srv)
	t.Cleanup(httpSrv.Close)

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, typ protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(typ, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))

	var reply protocol.Message
	require.NoError(t, conn.ReadJSON(&reply))
	return &reply
}

func TestDrawDeterminism(t *testing.T) {
	_, conn := newTestServer(t)

	reply := roundTrip(t, conn, protocol.TypeDraw, protocol.DrawRequest{Stream: "scalar", Shape: []int{3}})
	require.Equal(t, protocol.TypeDrawResult, reply.Type)

	var result protocol.DrawResult
	require.NoError(t, reply.Decode(&result))
	assert.Equal(t, []int{3}, result.Shape)

	// The served values are exactly the library's.
	want := pcg.New(42, 54).Random(3)
	assert.Equal(t, want.Data(), result.Values)
}

func TestDrawBroadcastShape(t *testing.T) {
	_, conn := newTestServer(t)

	reply := roundTrip(t, conn, protocol.TypeDraw, protocol.DrawRequest{Stream: "grid", Shape: []int{5}})
	require.Equal(t, protocol.TypeDrawResult, reply.Type)

	var result protocol.DrawResult
	require.NoError(t, reply.Decode(&result))
	assert.Equal(t, []int{2, 2, 5}, result.Shape)
	assert.Len(t, result.Values, 20)
}

func TestStateRestoreCycle(t *testing.T) {
	_, conn := newTestServer(t)

	stateReply := roundTrip(t, conn, protocol.TypeState, protocol.StateRequest{Stream: "grid"})
	require.Equal(t, protocol.TypeStateResult, stateReply.Type)
	var checkpoint protocol.StateResult
	require.NoError(t, stateReply.Decode(&checkpoint))
	assert.Equal(t, []int{2, 2}, checkpoint.Shape)
	assert.Len(t, checkpoint.States, 4)

	first := roundTrip(t, conn, protocol.TypeDraw, protocol.DrawRequest{Stream: "grid", Shape: []int{2}})
	var firstResult protocol.DrawResult
	require.NoError(t, first.Decode(&firstResult))

	ack := roundTrip(t, conn, protocol.TypeRestore, protocol.RestoreRequest{Stream: "grid", States: checkpoint.States})
	require.Equal(t, protocol.TypeAck, ack.Type)

	replay := roundTrip(t, conn, protocol.TypeDraw, protocol.DrawRequest{Stream: "grid", Shape: []int{2}})
	var replayResult protocol.DrawResult
	require.NoError(t, replay.Decode(&replayResult))

	assert.Equal(t, firstResult.Values, replayResult.Values)
}

func TestAdvanceDistanceCycle(t *testing.T) {
	_, conn := newTestServer(t)

	stateReply := roundTrip(t, conn, protocol.TypeState, protocol.StateRequest{Stream: "scalar"})
	var before protocol.StateResult
	require.NoError(t, stateReply.Decode(&before))

	delta := int64(12345)
	ack := roundTrip(t, conn, protocol.TypeAdvance, protocol.AdvanceRequest{Stream: "scalar", Delta: &delta})
	require.Equal(t, protocol.TypeAck, ack.Type)

	// Distance back to the pre-advance state must be -delta.
	distReply := roundTrip(t, conn, protocol.TypeDistance, protocol.DistanceRequest{Stream: "scalar", States: before.States})
	require.Equal(t, protocol.TypeDistanceResult, distReply.Type)
	var dist protocol.DistanceResult
	require.NoError(t, distReply.Decode(&dist))
	assert.Equal(t, []int64{-delta}, dist.Distances)
}

func TestListStreams(t *testing.T) {
	_, conn := newTestServer(t)

	reply := roundTrip(t, conn, protocol.TypeList, struct{}{})
	require.Equal(t, protocol.TypeStreamList, reply.Type)

	var list protocol.StreamList
	require.NoError(t, reply.Decode(&list))
	require.Len(t, list.Streams, 2)

	byName := map[string]protocol.StreamInfo{}
	for _, info := range list.Streams {
		byName[info.Name] = info
	}
	assert.Equal(t, 1, byName["scalar"].Size)
	assert.Equal(t, 4, byName["grid"].Size)
	assert.Equal(t, []int{2, 2}, byName["grid"].Shape)
}

func TestErrorReplies(t *testing.T) {
	_, conn := newTestServer(t)

	tests := []struct {
		name     string
		typ      protocol.MessageType
		payload  any
		wantCode string
	}{
		{"unknown stream", protocol.TypeDraw, protocol.DrawRequest{Stream: "nope"}, protocol.CodeUnknownStream},
		{"bad distribution", protocol.TypeDraw, protocol.DrawRequest{Stream: "scalar", Distribution: "zipf"}, protocol.CodeBadRequest},
		{"restore shape mismatch", protocol.TypeRestore, protocol.RestoreRequest{Stream: "grid", States: []uint64{1, 2}}, protocol.CodeShapeMismatch},
		{"advance without delta", protocol.TypeAdvance, protocol.AdvanceRequest{Stream: "scalar"}, protocol.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := roundTrip(t, conn, tt.typ, tt.payload)
			require.Equal(t, protocol.TypeError, reply.Type)
			var errData protocol.ErrorData
			require.NoError(t, reply.Decode(&errData))
			assert.Equal(t, tt.wantCode, errData.Code)
		})
	}
}

func TestMonitorCountsDraws(t *testing.T) {
	srv, conn := newTestServer(t)

	roundTrip(t, conn, protocol.TypeDraw, protocol.DrawRequest{Stream: "grid", Shape: []int{5}})
	assert.Equal(t, int64(20), srv.monitor.Total())

	// One report consumes the delta; an idle interval reports nothing.
	assert.Equal(t, int64(20), srv.monitor.report(10*time.Second))
	assert.Equal(t, int64(0), srv.monitor.report(10*time.Second))
}
