// Package slacktest runs an in-process fake of the Web API for tests.
//
// Every POST to /api/<method> is recorded and answered by the handler
// registered for that method. Unregistered methods answer
// {"ok":false,"error":"unknown_method"}. A websocket endpoint at /rtm backs
// rtm.connect.
package slacktest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// Request is one recorded API call
type Request struct {
	Method  string
	RawBody string
	Form    url.Values
	Header  http.Header
}

// Keys returns the form keys in the order they were sent
func (r Request) Keys() []string {
	var keys []string
	for _, pair := range strings.Split(r.RawBody, "&") {
		if pair == "" {
			continue
		}
		k, _, _ := strings.Cut(pair, "=")
		if unescaped, err := url.QueryUnescape(k); err == nil {
			k = unescaped
		}
		keys = append(keys, k)
	}
	return keys
}

// Response is what a handler answers with
type Response struct {
	Status int
	Header map[string]string
	// Body is marshalled as JSON unless it is a string, which is sent raw
	Body any
}

// Handler answers one API call
type Handler func(req Request) Response

// RTMHandler drives one accepted websocket connection
type RTMHandler func(conn *websocket.Conn)

// Server is a fake API server
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	requests []Request
	rtm      RTMHandler
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewServer starts a fake server. Close it when done.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		handlers: make(map[string]Handler),
		rtm:      EchoRTM,
	}

	engine := gin.New()
	engine.POST("/api/:method", s.handleAPI)
	engine.GET("/rtm", s.handleRTM)

	s.Server = httptest.NewServer(engine)
	s.Handle("rtm.connect", func(Request) Response {
		return OK(codec.Object{
			"url":  s.RTMURL(),
			"self": codec.Object{"id": "U0BOT", "name": "bot"},
			"team": codec.Object{"id": "T0TEAM", "name": "Team", "domain": "team"},
		})
	})
	return s
}

// RTMURL returns the websocket URL of the fake RTM endpoint
func (s *Server) RTMURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http") + "/rtm"
}

// Handle registers h for method, replacing any previous handler
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

// Reply answers method with a fixed body
func (s *Server) Reply(method string, body any) {
	s.Handle(method, func(Request) Response {
		return Response{Status: http.StatusOK, Body: body}
	})
}

// ReplyOK answers method with ok=true and payload
func (s *Server) ReplyOK(method string, payload codec.Object) {
	s.Handle(method, func(Request) Response { return OK(payload) })
}

// ReplyError answers method with ok=false and code
func (s *Server) ReplyError(method, code string) {
	s.Reply(method, codec.Object{"ok": false, "error": code})
}

// RateLimit answers method with HTTP 429. An empty retryAfter omits the header.
func (s *Server) RateLimit(method, retryAfter string) {
	s.Handle(method, func(Request) Response {
		resp := Response{Status: http.StatusTooManyRequests, Body: codec.Object{"ok": false, "error": "ratelimited"}}
		if retryAfter != "" {
			resp.Header = map[string]string{"Retry-After": retryAfter}
		}
		return resp
	})
}

// OnRTM replaces the websocket driver
func (s *Server) OnRTM(h RTMHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rtm = h
}

// Requests returns every recorded call in arrival order
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns the number of recorded calls to method
func (s *Server) Count(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// Last returns the most recent call to method
func (s *Server) Last(method string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// OK builds an ok=true response carrying payload
func OK(payload codec.Object) Response {
	body := codec.Object{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	return Response{Status: http.StatusOK, Body: body}
}

func (s *Server) handleAPI(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	form, err := url.ParseQuery(string(raw))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	req := Request{
		Method:  c.Param("method"),
		RawBody: string(raw),
		Form:    form,
		Header:  c.Request.Header.Clone(),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	h, ok := s.handlers[req.Method]
	s.mu.Unlock()

	resp := Response{Status: http.StatusOK, Body: codec.Object{"ok": false, "error": "unknown_method"}}
	if ok {
		resp = h(req)
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	for k, v := range resp.Header {
		c.Header(k, v)
	}

	switch body := resp.Body.(type) {
	case string:
		c.Data(resp.Status, "text/plain; charset=utf-8", []byte(body))
	case nil:
		c.Status(resp.Status)
	default:
		data, err := codec.Marshal(body)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Data(resp.Status, "application/json; charset=utf-8", data)
	}
}

func (s *Server) handleRTM(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.mu.Lock()
	h := s.rtm
	s.mu.Unlock()
	h(conn)
}

// EchoRTM greets with a hello event, then acknowledges every frame that
// carries an id and echoes its text back as a message event.
func EchoRTM(conn *websocket.Conn) {
	if err := conn.WriteJSON(map[string]any{"type": "hello"}); err != nil {
		return
	}
	for {
		var frame map[string]any
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		ack := map[string]any{"ok": true, "reply_to": frame["id"], "ts": "1612137600.000100", "text": frame["text"]}
		if err := conn.WriteJSON(ack); err != nil {
			return
		}
		event := map[string]any{
			"type":    "message",
			"channel": frame["channel"],
			"user":    "U0BOT",
			"text":    frame["text"],
			"ts":      "1612137600.000100",
		}
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
