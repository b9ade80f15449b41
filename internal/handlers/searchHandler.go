package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/akolanti/LessonIndexer/internal/api"
	"github.com/akolanti/LessonIndexer/internal/embedding"
	"github.com/akolanti/LessonIndexer/internal/search"
	"github.com/akolanti/LessonIndexer/pkg/logger_i"
)

const defaultSearchLimit = 5
const maxSearchLimit = 50

var (
	searchInstance *SearchHandlerState //private singleton
	searchOnce     sync.Once
	logSH          *logger_i.Logger
)

type SearchHandlerState struct {
	generator *embedding.Generator
	indexer   search.DocumentIndexer
}

func InitSearchHandler(generator *embedding.Generator, indexer search.DocumentIndexer) {
	searchOnce.Do(func() {
		searchInstance = &SearchHandlerState{generator: generator, indexer: indexer}
		logSH = logger_i.NewLogger("SearchHandler")
	})
}

// SearchHandler answers GET /search?q=...&limit=N with vector-similarity
// matches from the index.
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	if searchInstance == nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, "", "Search is not available")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "q is required")
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSearchLimit {
			WriteErrorResponse(w, http.StatusBadRequest, "", "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	vector := searchInstance.generator.Generate(r.Context(), query)
	matches, err := searchInstance.indexer.Search(r.Context(), vector, limit)
	if err != nil {
		logSH.Error("search failed", "error", err)
		WriteErrorResponse(w, http.StatusBadGateway, "", "Search backend error")
		return
	}

	result := api.SearchResult{Query: query, Matches: make([]api.SearchMatch, 0, len(matches))}
	for _, m := range matches {
		result.Matches = append(result.Matches, api.SearchMatch{
			Id:          m.ID,
			Score:       m.Score,
			BenchmarkId: m.BenchmarkID,
			Title:       m.Title,
			Description: m.Description,
			ResourceURL: m.ResourceURL,
		})
	}
	writeJsonResponse(w, http.StatusOK, result)
}
