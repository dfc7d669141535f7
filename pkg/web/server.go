package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/12rambau/pytfa/pkg/logging"
	"github.com/12rambau/pytfa/pkg/modelio"
	"github.com/12rambau/pytfa/pkg/pubsub"
	"github.com/12rambau/pytfa/pkg/reduction"
	"github.com/gorilla/mux"
)

// PairDistance is one entry of the minimum-distance matrix
type PairDistance struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Distance int    `json:"distance"`
}

// PairPaths lists the shortest connecting paths for one subsystem pair at one depth
type PairPaths struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Depth       int              `json:"depth"`
	Paths       []reduction.Path `json:"paths"`
	Reactions   []string         `json:"reactions"`
	Metabolites []string         `json:"metabolites"`
}

// Server exposes reduction results over HTTP for diagnostic consumption
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu         sync.RWMutex
	modelName  string
	subsystems []string
	depth      int
	reducer    *reduction.Reducer
	result     *reduction.Result
}

// NewServer creates a new web server
func NewServer() *Server {
	s := &Server{
		router:    mux.NewRouter(),
		publisher: pubsub.NewSSEPublisher(),
	}
	s.setupRoutes()
	return s
}

// SetResult swaps in the outcome of a completed reduction run
func (s *Server) SetResult(modelName string, subsystems []string, depth int, r *reduction.Reducer, result *reduction.Result) {
	s.mu.Lock()
	s.modelName = modelName
	s.subsystems = subsystems
	s.depth = depth
	s.reducer = r
	s.result = result
	s.mu.Unlock()

	summary := pubsub.RunSummary{
		Model:            modelName,
		KeptReactions:    len(result.KeptReactions),
		RemovedReactions: len(result.RemovedReactions),
		Metabolites:      len(result.Network.Metabolites),
	}
	if err := s.publisher.Publish(pubsub.TopicRunResult, "pruned", summary); err != nil {
		logging.Error("failed to publish run result", "error", err)
	}
}

// PublishStatus publishes a run progress event
func (s *Server) PublishStatus(state, message string) {
	status := pubsub.RunStatus{State: state, Message: message}
	if err := s.publisher.Publish(pubsub.TopicRunStatus, state, status); err != nil {
		logging.Error("failed to publish run status", "error", err)
	}
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/subscribe/run_status", s.handleSubscribe(pubsub.TopicRunStatus)).Methods("GET")
	s.router.HandleFunc("/api/subscribe/run_result", s.handleSubscribe(pubsub.TopicRunResult)).Methods("GET")

	s.router.HandleFunc("/api/network", s.handleNetwork).Methods("GET")
	s.router.HandleFunc("/api/reduction", s.handleReduction).Methods("GET")
	s.router.HandleFunc("/api/distances", s.handleDistances).Methods("GET")
	s.router.HandleFunc("/api/pairs/{from}/{to}/paths", s.handlePairPaths).Methods("GET")
	s.router.HandleFunc("/api/subsystems/{name}/extracellular", s.handleExtracellularPaths).Methods("GET")
}

func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		// Establish the stream before any event arrives
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.Error("failed to write SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

// handleNetwork serves the reduced model in the same JSON format it was
// loaded from, so clients can download the result directly
func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		http.Error(w, "No reduction result available yet", http.StatusServiceUnavailable)
		return
	}

	data, err := modelio.Marshal(s.result.Network)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleReduction(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		http.Error(w, "No reduction result available yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"model":               s.modelName,
		"kept_reactions":      s.result.KeptReactions,
		"removed_reactions":   s.result.RemovedReactions,
		"removed_metabolites": s.result.RemovedMetabolites,
		"metabolites":         s.result.Network.MetaboliteIDs(),
	})
}

func (s *Server) handleDistances(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.result == nil {
		http.Error(w, "No reduction result available yet", http.StatusServiceUnavailable)
		return
	}

	distances := make([]PairDistance, 0, len(s.result.MinDistances))
	for key, d := range s.result.MinDistances {
		distances = append(distances, PairDistance{From: key.From, To: key.To, Distance: d})
	}
	sort.Slice(distances, func(a, b int) bool {
		if distances[a].From != distances[b].From {
			return distances[a].From < distances[b].From
		}
		return distances[a].To < distances[b].To
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(distances)
}

func (s *Server) handlePairPaths(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.reducer == nil {
		http.Error(w, "No reduction result available yet", http.StatusServiceUnavailable)
		return
	}

	vars := mux.Vars(r)
	from, to := vars["from"], vars["to"]

	depths, err := s.requestedDepths(r, s.depth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var out []PairPaths
	for _, k := range depths {
		paths := s.reducer.PairPaths(from, to, k)
		if len(paths) == 0 {
			continue
		}
		out = append(out, PairPaths{
			From:        from,
			To:          to,
			Depth:       k,
			Paths:       paths,
			Reactions:   s.reducer.IntermediateReactions(from, to, k),
			Metabolites: s.reducer.IntermediateMetabolites(from, to, k),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleExtracellularPaths(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.reducer == nil {
		http.Error(w, "No reduction result available yet", http.StatusServiceUnavailable)
		return
	}

	name := mux.Vars(r)["name"]

	var out []PairPaths
	for k := 0; ; k++ {
		// A nil slice means k is past the extracellular search horizon
		paths := s.reducer.ExtracellularPaths(name, k)
		if len(paths) > 0 {
			out = append(out, PairPaths{
				From:  "extracellular",
				To:    name,
				Depth: k,
				Paths: paths,
			})
		}
		if paths == nil {
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// requestedDepths parses an optional ?depth=k query, defaulting to all depths
func (s *Server) requestedDepths(r *http.Request, max int) ([]int, error) {
	raw := r.URL.Query().Get("depth")
	if raw == "" {
		depths := make([]int, max+1)
		for i := range depths {
			depths[i] = i
		}
		return depths, nil
	}

	k, err := strconv.Atoi(raw)
	if err != nil || k < 0 {
		return nil, fmt.Errorf("invalid depth %q", raw)
	}
	return []int{k}, nil
}

// ServeHTTP makes the server usable as a plain http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, logging.RequestIDMiddleware(s.router))
}
