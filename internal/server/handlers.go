package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/djvirus9/secops-dashboard/api/schemas"
	"github.com/djvirus9/secops-dashboard/internal/parsers"
	"github.com/djvirus9/secops-dashboard/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.store.ListAssets(r.Context(), limitParam(r))
	if err != nil {
		s.internalError(w, "Failed to list assets", err)
		return
	}
	s.respond(w, http.StatusOK, listPayload(assets))
}

func (s *Server) handleUpsertAsset(w http.ResponseWriter, r *http.Request) {
	var in store.AssetUpsert
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if store.NormalizeKey(in.Key) == "" {
		s.respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	asset, err := s.store.UpsertAsset(r.Context(), in)
	if err != nil {
		s.internalError(w, "Failed to upsert asset", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"ok": true, "asset": asset})
}

func (s *Server) handleIngestSignal(w http.ResponseWriter, r *http.Request) {
	var in schemas.SignalIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Tool == "" || in.Title == "" {
		s.respondError(w, http.StatusBadRequest, "tool and title are required")
		return
	}

	res, err := s.engine.IngestSignal(r.Context(), in)
	if err != nil {
		s.internalError(w, "Failed to ingest signal", err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

type scanRequest struct {
	Parser   string `json:"parser,omitempty"`
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content"`
}

func (s *Server) handleIngestScan(w http.ResponseWriter, r *http.Request) {
	var in scanRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Content == "" {
		s.respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	res, err := s.engine.IngestScan(r.Context(), in.Content, in.Parser, in.Filename)
	switch {
	case errors.Is(err, parsers.ErrUnknownParser):
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Unknown parser '%s'", in.Parser))
		return
	case errors.Is(err, parsers.ErrNoParserDetected):
		s.respondError(w, http.StatusBadRequest, "Could not detect a parser for the uploaded content")
		return
	case err != nil:
		s.internalError(w, "Failed to ingest scan", err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

func (s *Server) handleListFindings(w http.ResponseWriter, r *http.Request) {
	findings, err := s.store.ListFindings(r.Context(), limitParam(r))
	if err != nil {
		s.internalError(w, "Failed to list findings", err)
		return
	}
	s.respond(w, http.StatusOK, listPayload(findings))
}

type findingDetail struct {
	schemas.Finding
	Comments []schemas.Comment `json:"comments"`
}

func (s *Server) handleGetFinding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "findingID")

	finding, err := s.store.GetFinding(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Finding not found")
		return
	}
	if err != nil {
		s.internalError(w, "Failed to load finding", err)
		return
	}

	comments, err := s.store.ListComments(r.Context(), id)
	if err != nil {
		s.internalError(w, "Failed to load comments", err)
		return
	}
	if comments == nil {
		comments = []schemas.Comment{}
	}
	s.respond(w, http.StatusOK, findingDetail{Finding: finding, Comments: comments})
}

type findingUpdate struct {
	Status   *string `json:"status"`
	Assignee *string `json:"assignee"`
}

func (s *Server) handleUpdateFinding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "findingID")

	var in findingUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var patch store.TriagePatch
	if in.Status != nil {
		status := schemas.Status(*in.Status)
		if !schemas.ValidStatus(status) {
			s.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("Invalid status '%s'. Allowed: closed, investigating, open, resolved", *in.Status))
			return
		}
		patch.Status = &status
	}
	patch.Assignee = in.Assignee

	finding, changes, err := s.store.UpdateTriage(r.Context(), id, patch)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Finding not found")
		return
	}
	if err != nil {
		s.internalError(w, "Failed to update finding", err)
		return
	}
	if changes == nil {
		changes = []string{}
	}

	s.respond(w, http.StatusOK, map[string]any{
		"ok": true,
		"finding": map[string]any{
			"id":       finding.ID,
			"status":   finding.Status,
			"assignee": finding.Assignee,
		},
		"changes": changes,
	})
}

type commentIn struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "findingID")

	var in commentIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Author == "" || in.Content == "" {
		s.respondError(w, http.StatusBadRequest, "author and content are required")
		return
	}

	comment, err := s.store.AddComment(r.Context(), id, in.Author, in.Content, "comment")
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "Finding not found")
		return
	}
	if err != nil {
		s.internalError(w, "Failed to add comment", err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"ok": true, "comment": comment})
}

func (s *Server) handleListParsers(w http.ResponseWriter, r *http.Request) {
	var infos []schemas.ParserInfo
	if category := r.URL.Query().Get("category"); category != "" {
		infos = parsers.ListByCategory(schemas.Category(category))
	} else {
		infos = parsers.List()
	}
	s.respond(w, http.StatusOK, listPayload(infos))
}

func (s *Server) handleRisks(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.OpenRiskByAsset(r.Context())
	if err != nil {
		s.internalError(w, "Failed to aggregate risks", err)
		return
	}
	s.respond(w, http.StatusOK, listPayload(rows))
}

func (s *Server) handleRisksByAsset(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.OpenRiskByAssetKey(r.Context(), limitParam(r))
	if err != nil {
		s.internalError(w, "Failed to aggregate asset risks", err)
		return
	}
	s.respond(w, http.StatusOK, listPayload(rows))
}

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func listPayload[T any](items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{"count": len(items), "results": items}
}

func (s *Server) respond(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respond(w, statusCode, map[string]string{"error": message})
}

func (s *Server) internalError(w http.ResponseWriter, message string, err error) {
	s.log.Error(message, zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, message)
}
