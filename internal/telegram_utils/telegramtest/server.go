// Package telegramtest runs a stand-in Bot API server so handlers can be
// exercised with a real *tele.Bot.
package telegramtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v3"
)

type Request struct {
	Method string
	Params map[string]any
}

// Text returns the "text" parameter of a sendMessage call.
func (r Request) Text() string {
	text, _ := r.Params["text"].(string)
	return text
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	messages int
}

func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	params := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&params)

	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: method, Params: params})
	s.messages++
	id := s.messages
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "sendMessage" {
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%v,"type":"private"}}}`, id, params["chat_id"])
		return
	}
	fmt.Fprint(w, `{"ok":true,"result":true}`)
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Sent returns the texts of all sendMessage calls in order.
func (s *Server) Sent() []string {
	var texts []string
	for _, request := range s.Requests() {
		if request.Method == "sendMessage" {
			texts = append(texts, request.Text())
		}
	}
	return texts
}

// NewBot returns an offline bot that talks to the server.
func (s *Server) NewBot(t *testing.T) *tele.Bot {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{
		URL:         s.URL,
		Token:       "test-token",
		Offline:     true,
		Synchronous: true,
	})
	if err != nil {
		t.Fatalf("failed to create bot: %v", err)
	}
	return bot
}

// TextUpdate builds an update carrying a private text message.
func TextUpdate(userID int64, text string) tele.Update {
	return tele.Update{
		ID: 1,
		Message: &tele.Message{
			ID:     1,
			Text:   text,
			Sender: &tele.User{ID: userID, FirstName: "Test", Username: "tester"},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		},
	}
}
