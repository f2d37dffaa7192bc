// Package server exposes configured streams over websockets. It is a thin
// binding layer: each message maps onto one core operation, and all the
// determinism guarantees come from the core.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/randstream/collection"
	"github.com/lox/randstream/internal/config"
	"github.com/lox/randstream/internal/protocol"
	"github.com/lox/randstream/internal/tensor"
	"github.com/lox/randstream/pcg"
)

// Server serves draw, state and jump requests for a set of named streams.
type Server struct {
	logger   *log.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader
	monitor  *Monitor

	mu      sync.RWMutex
	streams map[string]*streamHandle
}

// streamHandle serializes access to one stream. Draws on a single generator
// are sequential by design; the lock enforces the single-writer model per
// stream while letting distinct streams serve concurrently.
type streamHandle struct {
	mu   sync.Mutex
	auto *collection.Auto
}

// New builds a server hosting the streams defined in cfg.
func New(cfg *config.Config, logger *log.Logger, clock quartz.Clock) (*Server, error) {
	s := &Server{
		logger:  logger.WithPrefix("server"),
		clock:   clock,
		monitor: NewMonitor(logger, clock),
		streams: make(map[string]*streamHandle),
	}
	for _, sc := range cfg.Streams {
		auto, err := sc.Build()
		if err != nil {
			return nil, fmt.Errorf("server: building stream %q: %w", sc.Name, err)
		}
		s.streams[sc.Name] = &streamHandle{auto: auto}
		s.logger.Debug("stream ready", "name", sc.Name, "shape", auto.Shape(), "cells", auto.Size())
	}
	return s, nil
}

// Run serves websocket clients on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	httpSrv := &http.Server{Addr: addr, Handler: mux}

	go s.monitor.Run(ctx, 10*time.Second)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP upgrades the connection and answers requests until the client
// goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("client connected", "remote", conn.RemoteAddr())
	for {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read failed", "error", err)
			}
			return
		}

		reply := s.handle(&msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("write failed", "error", err)
			return
		}
	}
}

// handle dispatches one request and never returns nil.
func (s *Server) handle(msg *protocol.Message) *protocol.Message {
	switch msg.Type {
	case protocol.TypeDraw:
		return s.handleDraw(msg)
	case protocol.TypeState:
		return s.handleState(msg)
	case protocol.TypeRestore:
		return s.handleRestore(msg)
	case protocol.TypeAdvance:
		return s.handleAdvance(msg)
	case protocol.TypeDistance:
		return s.handleDistance(msg)
	case protocol.TypeList:
		return s.handleList()
	default:
		return errorMessage(protocol.CodeBadRequest, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

func (s *Server) stream(name string) (*streamHandle, *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.streams[name]
	if !ok {
		return nil, errorMessage(protocol.CodeUnknownStream, fmt.Sprintf("no stream named %q", name))
	}
	return h, nil
}

func (s *Server) handleDraw(msg *protocol.Message) *protocol.Message {
	var req protocol.DrawRequest
	if err := msg.Decode(&req); err != nil {
		return errorMessage(protocol.CodeBadRequest, err.Error())
	}
	h, errMsg := s.stream(req.Stream)
	if errMsg != nil {
		return errMsg
	}

	h.mu.Lock()
	out, err := draw(h.auto, &req)
	h.mu.Unlock()
	if err != nil {
		return errorMessage(protocol.CodeBadRequest, err.Error())
	}

	s.monitor.Observe(out.Size())
	return mustMessage(protocol.TypeDrawResult, protocol.DrawResult{
		Stream: req.Stream,
		Shape:  out.Shape(),
		Values: out.Data(),
	})
}

func draw(auto *collection.Auto, req *protocol.DrawRequest) (*tensor.F64, error) {
	switch req.Distribution {
	case "", "uniform":
		return auto.Random(req.Shape...), nil
	case "weibull":
		return auto.Weibull(req.K, req.Lambda, req.Shape...)
	case "exponential":
		return auto.Exponential(req.Lambda, req.Shape...)
	case "normal":
		return auto.Normal(req.Mu, req.Sigma, req.Shape...)
	default:
		return nil, fmt.Errorf("unknown distribution %q", req.Distribution)
	}
}

func (s *Server) handleState(msg *protocol.Message) *protocol.Message {
	var req protocol.StateRequest
	if err := msg.Decode(&req); err != nil {
		return errorMessage(protocol.CodeBadRequest, err.Error())
	}
	h, errMsg := s.stream(req.Stream)
	if errMsg != nil {
		return errMsg
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return mustMessage(protocol.TypeStateResult, protocol.StateResult{
		Stream:     req.Stream,
		Shape:      h.auto.Shape(),
		States:     h.auto.States().Data(),
		InitStates: h.auto.InitStates().Data(),
		InitSeqs:   h.auto.InitSeqs().Data(),
	})
}

func (s *Server) handleRestore(msg *protocol.Message) *protocol.Message {
	var req protocol.RestoreRequest
	if err := msg.Decode(&req); err != nil {
		return errorMessage(protocol.CodeBadRequest, err.Error())
	}
	h, errMsg := s.stream(req.Stream)
	if errMsg != nil {
		return errMsg
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	states, err := tensor.FromSlice(req.States, h.auto.Shape()...)
	if err != nil {
		return errorMessage(protocol.CodeShapeMismatch, err.Error())
	}
	if err := h.auto.Restore(states); err != nil {
		return errorMessage(protocol.CodeShapeMismatch, err.Error())
	}
	return mustMessage(protocol.TypeAck, protocol.Ack{Stream: req.Stream})
}

func (s *Server) handleAdvance(msg *protocol.Message) *protocol.Message {
	var req protocol.AdvanceRequest
	if err := msg.Decode(&req); err != nil {
		return errorMessage(protocol.CodeBadRequest, err.Error())
	}
	h, errMsg := s.stream(req.Stream)
	if errMsg != nil {
		return errMsg
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case req.Delta != nil:
		h.auto.AdvanceAll(*req.Delta)
	case req.Deltas != nil:
		deltas, err := tensor.FromSlice(req.Deltas, h.auto.Shape()...)
		if err != nil {
			return errorMessage(protocol.CodeShapeMismatch, err.Error())
		}
		if err := h.auto.Advance(deltas); err != nil {
			return errorMessage(protocol.CodeShapeMismatch, err.Error())
		}
	default:
		return errorMessage(protocol.CodeBadRequest, "advance requires delta or deltas")
	}
	return mustMessage(protocol.TypeAck, protocol.Ack{Stream: req.Stream})
}

func (s *Server) handleDistance(msg *protocol.Message) *protocol.Message {
	var req protocol.DistanceRequest
	if err := msg.Decode(&req); err != nil {
		return errorMessage(protocol.CodeBadRequest, err.Error())
	}
	h, errMsg := s.stream(req.Stream)
	if errMsg != nil {
		return errMsg
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	states, err := tensor.FromSlice(req.States, h.auto.Shape()...)
	if err != nil {
		return errorMessage(protocol.CodeShapeMismatch, err.Error())
	}
	dist, err := h.auto.DistanceStates(states)
	if err != nil {
		if errors.Is(err, pcg.ErrStreamMismatch) {
			return errorMessage(protocol.CodeStreamMismatch, err.Error())
		}
		return errorMessage(protocol.CodeShapeMismatch, err.Error())
	}
	return mustMessage(protocol.TypeDistanceResult, protocol.DistanceResult{
		Stream:    req.Stream,
		Distances: dist.Data(),
	})
}

func (s *Server) handleList() *protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := protocol.StreamList{}
	for name, h := range s.streams {
		list.Streams = append(list.Streams, protocol.StreamInfo{
			Name:  name,
			Shape: h.auto.Shape(),
			Size:  h.auto.Size(),
		})
	}
	return mustMessage(protocol.TypeStreamList, list)
}

func errorMessage(code, text string) *protocol.Message {
	return mustMessage(protocol.TypeError, protocol.ErrorData{Code: code, Message: text})
}

func mustMessage(t protocol.MessageType, v any) *protocol.Message {
	msg, err := protocol.NewMessage(t, v)
	if err != nil {
		// All payload types marshal cleanly.
		panic(err)
	}
	return msg
}
