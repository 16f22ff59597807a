package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/commonbase/internal/service/chat"
)

type messageRequest struct {
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	ChatID     string `json:"chat_id"`
	Text       string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

// Server is the HTTP transport: the same parsed-event contract as the
// telegram gateway, for clients that bring their own delivery.
type Server struct {
	options Options
	chat    *chat.Service
	srv     *http.Server
}

// Run blocks serving requests until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "http server running", "address", s.options.Address)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.SenderID) == 0 || len(req.Text) == 0 {
		http.Error(w, "sender_id and text are required", http.StatusBadRequest)
		return
	}

	reply := s.chat.Respond(r.Context(), chat.Event{
		SenderID:   req.SenderID,
		SenderName: req.SenderName,
		ChatID:     req.ChatID,
		Text:       req.Text,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func NewServer(svc *chat.Service, opts ...Option) *Server {
	options := NewOptions(opts...)

	s := &Server{
		options: options,
		chat:    svc,
	}

	router := mux.NewRouter()
	router.HandleFunc("/v1/messages", s.handleMessage).Methods(http.MethodPost)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	var handler http.Handler = router
	for _, m := range options.Middleware {
		handler = m(handler)
	}

	s.srv = &http.Server{
		Addr:    options.Address,
		Handler: handler,
	}

	return s
}
