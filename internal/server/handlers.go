package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/smartlearn-ai/smartlearn/internal/history"
	"github.com/smartlearn-ai/smartlearn/internal/llm"
	"github.com/smartlearn-ai/smartlearn/internal/search"
)

type searchRequest struct {
	Query string   `json:"query"`
	K     int      `json:"k,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
}

type searchResult struct {
	SourceID string  `json:"source_id"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type askResponse struct {
	Answer  string         `json:"answer"`
	Sources []searchResult `json:"sources"`
}

type ingestResponse struct {
	FilesProcessed int      `json:"files_processed"`
	FilesSkipped   int      `json:"files_skipped"`
	ChunksCreated  int      `json:"chunks_created"`
	Errors         []string `json:"errors,omitempty"`
}

type statsResponse struct {
	ChunkCount int                 `json:"chunk_count"`
	Dimensions int                 `json:"dimensions"`
	IndexCount int                 `json:"index_count"`
	LastRuns   []history.IngestRun `json:"last_runs,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// runSearch validates a search request and executes it, recording the query
// in history when available.
func (s *Server) runSearch(r *http.Request, req searchRequest, kind history.QueryKind) ([]search.Result, int, error) {
	if req.Query == "" {
		return nil, http.StatusBadRequest, errors.New("query is required")
	}

	k := req.K
	if k <= 0 {
		k = s.deps.Search.TopK
	}
	alpha := s.deps.Search.Alpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	start := time.Now()
	results, err := s.deps.Searcher.Search(r.Context(), req.Query, k, alpha)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrInvalidWeight):
			return nil, http.StatusBadRequest, err
		case errors.Is(err, search.ErrEmptyCorpus):
			return nil, http.StatusConflict, err
		default:
			return nil, http.StatusInternalServerError, err
		}
	}

	if s.deps.History != nil {
		if _, err := s.deps.History.RecordQuery(r.Context(), history.QueryRecord{
			Query:       req.Query,
			Kind:        kind,
			K:           k,
			Alpha:       alpha,
			ResultCount: len(results),
			Duration:    time.Since(start),
		}); err != nil {
			log.Printf("server: record query: %v", err)
		}
	}

	return results, http.StatusOK, nil
}

func toSearchResults(results []search.Result) []searchResult {
	out := make([]searchResult, len(results))
	for i, r := range results {
		out[i] = searchResult{SourceID: r.SourceID, Text: r.Text, Score: r.Score}
	}
	return out
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, status, err := s.runSearch(r, req, history.KindSearch)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: toSearchResults(results)})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.deps.LLMProvider == nil {
		writeError(w, http.StatusServiceUnavailable, "LLM provider not configured")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, status, err := s.runSearch(r, req, history.KindAsk)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	messages := s.deps.Prompts.Ask(req.Query, results)
	resp, err := s.deps.LLMProvider.Complete(r.Context(), llm.CompletionRequest{
		Model:    s.deps.LLMModel,
		Messages: messages,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "generation failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:  resp.Content,
		Sources: toSearchResults(results),
	})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Pipeline.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ingestResponse{
		FilesProcessed: res.FilesProcessed,
		FilesSkipped:   res.FilesSkipped,
		ChunksCreated:  res.ChunksCreated,
	}
	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.deps.Pipeline.Stats()
	resp := statsResponse{
		ChunkCount: stats.ChunkCount,
		Dimensions: stats.Dimensions,
		IndexCount: stats.IndexCount,
	}

	if s.deps.History != nil {
		runs, err := s.deps.History.RecentIngestRuns(r.Context(), 5)
		if err != nil {
			log.Printf("server: recent runs: %v", err)
		} else {
			resp.LastRuns = runs
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
