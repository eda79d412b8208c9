package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
	"github.com/peterkuimelis/deckbuilder/internal/log"
	"github.com/peterkuimelis/deckbuilder/internal/session"
	"github.com/peterkuimelis/deckbuilder/internal/ydk"
)

// maxImportSize bounds the YDK body accepted by /api/deck/import.
const maxImportSize = 1 << 20

// EditRequest is the body of the increment and decrement endpoints.
type EditRequest struct {
	Password uint32 `json:"password"`
	Part     string `json:"part"`
	Amount   int    `json:"amount"`
}

// EditResponse reports how many copies changed and the resulting deck.
type EditResponse struct {
	Applied int               `json:"applied"`
	Deck    *session.DeckView `json:"deck"`
}

// HistoryResponse reports whether an undo or redo happened.
type HistoryResponse struct {
	Changed bool              `json:"changed"`
	Deck    *session.DeckView `json:"deck"`
}

// Server is the deckbuilder HTTP and WebSocket server.
type Server struct {
	session *session.Session
	logger  *charmlog.Logger
	mux     *http.ServeMux
}

// NewServer creates a new web server over sess.
func NewServer(sess *session.Session, logger *charmlog.Logger) *Server {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	s := &Server{
		session: sess,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/deck", s.handleDeck)
	s.mux.HandleFunc("POST /api/deck/increment", s.handleEdit(true))
	s.mux.HandleFunc("POST /api/deck/decrement", s.handleEdit(false))
	s.mux.HandleFunc("POST /api/deck/undo", s.handleHistory((*session.Session).Undo))
	s.mux.HandleFunc("POST /api/deck/redo", s.handleHistory((*session.Session).Redo))
	s.mux.HandleFunc("POST /api/deck/new", s.handleNew)
	s.mux.HandleFunc("POST /api/deck/import", s.handleImport)
	s.mux.HandleFunc("GET /api/deck/export", s.handleExport)
	s.mux.HandleFunc("GET /api/deck/encoded", s.handleEncoded)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/cards", s.handleCards)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps session errors to client or server failures.
func statusFor(err error) int {
	var parseErr *ydk.ParseError
	var unknownErr *ydk.UnknownIDError
	switch {
	case errors.Is(err, session.ErrUnknownPassword),
		errors.Is(err, session.ErrBadAmount),
		errors.As(err, &parseErr),
		errors.As(err, &unknownErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// --- Handlers ---

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleEdit(increment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
			return
		}
		part, err := deck.ParsePartType(req.Part)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Amount == 0 {
			req.Amount = 1
		}

		var applied uint8
		if increment {
			applied, err = s.session.Increment(r.Context(), req.Password, part, req.Amount)
		} else {
			applied, err = s.session.Decrement(r.Context(), req.Password, part, req.Amount)
		}
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, EditResponse{Applied: int(applied), Deck: s.session.View()})
	}
}

func (s *Server) handleHistory(op func(*session.Session, context.Context) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changed, err := op(s.session, r.Context())
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, HistoryResponse{Changed: changed, Deck: s.session.View()})
	}
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, &ydk.ReadError{Err: err})
		return
	}
	source := r.URL.Query().Get("filename")
	if source == "" {
		source = ydk.DefaultFilename
	}
	if err := s.session.ImportYDK(r.Context(), string(body), source); err != nil {
		s.logger.Info("import rejected", "source", source, "err", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	text, err := s.session.ExportYDK()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", ydk.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ydk.DefaultFilename))
	io.WriteString(w, text)
}

func (s *Server) handleEncoded(w http.ResponseWriter, r *http.Request) {
	text, err := s.session.Encoded()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

// handleEvents lists recent deck events. ?type= keeps one event type and
// ?format=text returns the plain log lines instead of JSON.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, _ := strconv.Atoi(q.Get("limit"))

	if q.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, s.session.EventLog(n))
		return
	}
	if name := q.Get("type"); name != "" {
		t, err := log.ParseEventType(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusOK, s.session.EventsOfType(t, n))
		return
	}
	writeJSON(w, http.StatusOK, s.session.Events(n))
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := catalog.Filter{Name: q.Get("name"), Text: q.Get("text")}
	writeJSON(w, http.StatusOK, s.session.Search(filter, limit))
}

// handleWebSocket pushes the deck and its events to the browser and applies
// commands it sends back.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Error("websocket accept", "err", err)
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	id, updates := s.session.Subscribe()
	defer s.session.Unsubscribe(id)
	s.logger.Info("websocket connected", "id", id, "remote", r.RemoteAddr)

	if err := wsjson.Write(ctx, wsConn, session.ServerMessage{Type: "deck", Deck: s.session.View()}); err != nil {
		return
	}

	// Browser → session
	go func() {
		defer cancel()
		for {
			var msg session.ClientMessage
			if err := wsjson.Read(ctx, wsConn, &msg); err != nil {
				return
			}
			if err := s.session.Handle(ctx, msg); err != nil {
				wsjson.Write(ctx, wsConn, session.ServerMessage{Type: "error", Error: err.Error()})
			}
		}
	}()

	// Session → browser
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("websocket closed", "id", id)
			wsConn.Close(websocket.StatusNormalClosure, "")
			return
		case msg, ok := <-updates:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, wsConn, msg); err != nil {
				s.logger.Debug("websocket write", "id", id, "err", err)
				return
			}
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
