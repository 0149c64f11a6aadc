package watch

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
)

const (
	routeIndex  = "/"
	routeEvents = "/events"

	eventStatus = "status"
	eventGraph  = "graph"
)

// snapshot is the outcome of one rebuild as shown in the browser.
type snapshot struct {
	// Status is a one-line build summary or the build error.
	Status string
	// Graph is the header graph in DOT. Empty when the tree could not be
	// read at all.
	Graph string
	// Failed marks Status as an error.
	Failed bool
}

// broker fans rebuild snapshots out to connected viewers. A viewer that
// connects late gets the latest snapshot first.
type broker struct {
	mu      sync.Mutex
	viewers map[chan snapshot]struct{}
	latest  *snapshot
}

func newBroker() *broker {
	return &broker{viewers: make(map[chan snapshot]struct{})}
}

func (b *broker) subscribe() chan snapshot {
	ch := make(chan snapshot, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewers[ch] = struct{}{}
	if b.latest != nil {
		ch <- *b.latest
	}
	return ch
}

func (b *broker) unsubscribe(ch chan snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.viewers[ch]; ok {
		delete(b.viewers, ch)
		close(ch)
	}
}

// publish replaces the latest snapshot. A viewer still holding an unsent
// snapshot has it swapped for the new one; stale graphs are never queued.
func (b *broker) publish(s snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = &s
	for ch := range b.viewers {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func newServer(b *broker, port int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc(routeIndex, handleIndex)
	mux.HandleFunc(routeEvents, handleEvents(b))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routeIndex {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// handleEvents streams one status event, then one graph event when there is
// a graph, per rebuild.
func handleEvents(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := b.subscribe()
		defer b.unsubscribe(ch)

		for {
			select {
			case <-r.Context().Done():
				return
			case s, ok := <-ch:
				if !ok {
					return
				}
				writeSnapshot(w, s)
				flusher.Flush()
			}
		}
	}
}

func writeSnapshot(w http.ResponseWriter, s snapshot) {
	status := "ok: " + s.Status
	if s.Failed {
		status = "error: " + s.Status
	}
	writeEvent(w, eventStatus, status)
	if s.Graph != "" {
		writeEvent(w, eventGraph, s.Graph)
	}
}

// writeEvent frames data as one SSE event. Multi-line data such as DOT gets
// one data field per line.
func writeEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimSuffix(data, "\n"), "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}
