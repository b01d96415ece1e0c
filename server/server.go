package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/player"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/fastview"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/root_view"
	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/server/scene_views"

	"github.com/gorilla/mux"
)

const shutdownTimeout = 5 * time.Second

// Status reports playback progress for the status endpoint.
type Status interface {
	State() player.State
	Current() int
	Frames() int
	Progress() float64
}

// Feed is the player sink of the live display. Drawn frames are passed into the
// view pipeline; the latest one is kept for rendering the page to new clients.
type Feed struct {
	frames    chan models.Frame
	closeOnce sync.Once

	mu     sync.RWMutex
	latest models.Frame
}

// NewFeed returns a feed whose page shows @initial until the first frame is drawn.
func NewFeed(initial models.Frame) *Feed {
	return &Feed{
		frames: make(chan models.Frame),
		latest: initial,
	}
}

// Frames is the feed's output, closed by Close.
func (feed *Feed) Frames() <-chan models.Frame {
	return feed.frames
}

// Draw blocks until the view pipeline accepts @frame, so playback is paced by its consumers.
func (feed *Feed) Draw(ctx context.Context, frame models.Frame) error {
	feed.mu.Lock()
	feed.latest = frame
	feed.mu.Unlock()

	select {
	case feed.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the frame stream. The latest frame stays available to the page.
func (feed *Feed) Close() error {
	feed.closeOnce.Do(func() {
		close(feed.frames)
	})
	return nil
}

// Latest returns the most recently drawn frame.
func (feed *Feed) Latest() models.Frame {
	feed.mu.RLock()
	defer feed.mu.RUnlock()
	return feed.latest
}

// Server serves the live display: the main page, its websocket, and playback status.
// The ele-update channel is shared, so concurrent pages split the updates between them;
// the display is meant for a single page.
type Server struct {
	addr     string
	feed     *Feed
	status   Status
	rootView *root_view.RootView
	router   *mux.Router
}

// NewServer builds the views over the feed's frames and returns a server.
func NewServer(
	ctx context.Context,
	addr string,
	feed *Feed,
	status Status,
) (*Server, error) {
	rootView, err := root_view.NewRootView(ctx, feed.Frames())
	if err != nil {
		return nil, fmt.Errorf("root view: %w", err)
	}

	server := &Server{
		addr:     addr,
		feed:     feed,
		status:   status,
		rootView: rootView,
		router:   mux.NewRouter(),
	}
	server.router.HandleFunc("/", server.serveIndex).Methods(http.MethodGet)
	server.router.HandleFunc("/ws", server.serveWebsocket)
	server.router.HandleFunc("/status", server.serveStatus).Methods(http.MethodGet)
	return server, nil
}

// Handler returns the server's router.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Serve listens on the server's address until @ctx is cancelled, then shuts down.
func (server *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    server.addr,
		Handler: server.router,
		// Websocket requests derive from ctx, so cancellation closes them too.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// serveWebsocket publishes the page's element updates to the client via websocket.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := fastview.NewClient(server.rootView.Updates(), w, r)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	if err := cli.Sync(); err != nil {
		log.Println("sync:", err)
	}
}

// Serve the index.html main page.
func (server *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")

	vf := scene_views.Convert(server.feed.Latest())
	if err := renderTemplate(w, server.rootView, vf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// StatusResponse is the body of the status endpoint.
type StatusResponse struct {
	State    string  `json:"state"`
	Frame    int     `json:"frame"`
	Frames   int     `json:"frames"`
	Progress float64 `json:"progress"`
}

func (server *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := StatusResponse{
		State:    server.status.State().String(),
		Frame:    server.status.Current(),
		Frames:   server.status.Frames(),
		Progress: server.status.Progress(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("status:", err)
	}
}

func renderTemplate(
	w io.Writer,
	vc fastview.ViewComponent,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}
