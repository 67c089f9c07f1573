package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"pianoroll/debug"
	"pianoroll/roll"
)

// Status is the roll state as of the last rendered frame
type Status struct {
	Keys    string  `json:"keys"`
	Speed   float64 `json:"speed"`
	Time    int     `json:"time"`
	Rects   int     `json:"rects"`
	Pressed []int   `json:"pressed"`
}

// Encoder is the canvas side needed to serve frames
type Encoder interface {
	EncodePNG(w io.Writer) error
}

// Server exposes the roll read-only over HTTP. All roll state is copied
// on the frame goroutine; handlers never touch the keyboard.
type Server struct {
	addr    string
	timeout time.Duration

	mu     sync.RWMutex
	status Status

	frames chan chan []byte
	router *mux.Router
}

type Option func(*Server)

// WithFrameTimeout bounds how long /frame.png waits for the next frame
func WithFrameTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		timeout: 2 * time.Second,
		frames:  make(chan chan []byte),
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/keyboard", s.handleKeyboard).Methods(http.MethodGet)
	s.router.HandleFunc("/frame.png", s.handleFrame).Methods(http.MethodGet)
	return s
}

// Handler is the router wrapped with permissive read-only CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	return c.Handler(s.router)
}

// Publish records the keyboard state and answers a waiting frame request.
// Call it from the goroutine that owns kb and canvas.
func (s *Server) Publish(kb *roll.Keyboard, canvas Encoder) {
	st := Status{
		Keys:    kb.String(),
		Speed:   kb.Speed(),
		Time:    kb.Time(),
		Rects:   len(kb.Rects()),
		Pressed: kb.Pressed(),
	}
	if st.Pressed == nil {
		st.Pressed = []int{}
	}

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()

	select {
	case reply := <-s.frames:
		var buf bytes.Buffer
		if err := canvas.EncodePNG(&buf); err != nil {
			debug.Warn("http", "encoding frame: %v", err)
			reply <- nil
			return
		}
		reply <- buf.Bytes()
	default:
	}
}

// FrameHook adapts Publish to a driver frame hook
func (s *Server) FrameHook(canvas Encoder) func(*roll.Keyboard) {
	return func(kb *roll.Keyboard) {
		s.Publish(kb, canvas)
	}
}

func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Status())
}

func (s *Server) handleKeyboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.Status().Keys+"\n")
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	reply := make(chan []byte, 1)
	select {
	case s.frames <- reply:
	case <-timer.C:
		http.Error(w, "no frame rendered", http.StatusServiceUnavailable)
		return
	case <-r.Context().Done():
		return
	}

	select {
	case png := <-reply:
		if png == nil {
			http.Error(w, "frame encoding failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	case <-timer.C:
		http.Error(w, "no frame rendered", http.StatusServiceUnavailable)
	case <-r.Context().Done():
	}
}

// Run serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errc := make(chan error, 1)
	go func() {
		debug.Log("http", "listening on %s", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
