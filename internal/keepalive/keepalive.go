// Package keepalive — операционная обвязка: минимальный HTTP-эндпоинт
// живости и периодический self-ping внешнего URL (чтобы платформа
// хостинга не усыпляла процесс). К контракту моста отношения не имеет.
package keepalive

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/EgorLis/mcbridge/pkg/logger"
)

const pingInterval = 2 * time.Minute

type Server struct {
	srv     *http.Server
	pingURL string
	client  *http.Client

	mu     sync.Mutex
	stopCh chan struct{}
}

func New(port, pingURL string) *Server {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("alive"))
	}).Methods(http.MethodGet, http.MethodHead)

	return &Server{
		srv:     &http.Server{Addr: ":" + port, Handler: r},
		pingURL: pingURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Server) Start() {
	s.mu.Lock()
	if s.stopCh != nil {
		s.mu.Unlock()
		return
	}
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.mu.Unlock()

	go func() {
		logger.Log.WithField("addr", s.srv.Addr).Info("keepalive server listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Error("keepalive server failed")
		}
	}()

	if s.pingURL != "" {
		go s.pingLoop(stop)
	}
}

func (s *Server) Stop() {
	s.mu.Lock()
	ch := s.stopCh
	s.stopCh = nil
	s.mu.Unlock()

	if ch != nil {
		close(ch)
		_ = s.srv.Close()
	}
}

func (s *Server) pingLoop(stop <-chan struct{}) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			resp, err := s.client.Get(s.pingURL)
			if err != nil {
				logger.Log.WithError(err).Warn("self-ping failed")
				continue
			}
			_ = resp.Body.Close()
		}
	}
}
