// Package server exposes the statement pipeline over HTTP: upload a file,
// get the per-row classification report back; optionally import the OK
// rows when a datastore is wired.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/budgetbr/extratu/pkg/config"
	"github.com/budgetbr/extratu/pkg/importer"
	"github.com/budgetbr/extratu/pkg/models"
	"github.com/budgetbr/extratu/pkg/service"
)

type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	processor *service.Processor
	imports   *importer.Importer
}

// New creates the HTTP server. store may be nil, which disables the
// import endpoint.
func New(cfg *config.Config, logger *log.Logger, store importer.Store) (*Server, error) {
	processor, err := service.NewProcessor(cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		processor: processor,
	}
	if store != nil {
		s.imports = importer.New(store, logger,
			importer.WithBatchSize(cfg.BatchSize),
			importer.WithDuplicateSkipping(cfg.SkipDuplicates))
	}
	return s, nil
}

// Start listens on addr and serves until the listener fails.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
}

// handleProcess classifies an uploaded statement and returns the per-row
// report without persisting anything.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	rows, ok := s.classifyUpload(w, r)
	if !ok {
		return
	}

	summary := map[models.RowStatus]int{}
	for _, row := range rows {
		summary[row.Status]++
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"rows":    rows,
		"ok":      summary[models.RowOK],
		"skipped": summary[models.RowSkipped],
		"errors":  summary[models.RowError],
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleImport classifies an uploaded statement and persists the OK rows
// into the configured datastore.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.imports == nil {
		s.respondError(w, r, http.StatusNotImplemented, "no datastore configured", nil)
		return
	}

	rows, ok := s.classifyUpload(w, r)
	if !ok {
		return
	}

	scope := r.FormValue("account_id")
	if scope == "" {
		s.respondError(w, r, http.StatusBadRequest, "account_id required", nil)
		return
	}

	result, err := s.imports.Import(scope, rows)
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "import failed", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"result": result,
		"rows":   rows,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) classifyUpload(w http.ResponseWriter, r *http.Request) ([]models.ParsedRow, bool) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return nil, false
	}

	accountType := models.AccountType(r.FormValue("account_type"))
	if accountType == "" {
		accountType = models.AccountTypeBank
	}
	if !accountType.Valid() {
		s.respondError(w, r, http.StatusBadRequest, "unknown account_type", nil)
		return nil, false
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return nil, false
	}

	rows, _, err := s.processor.ProcessBytes(data, header.Filename, accountType)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return nil, false
	}
	return rows, true
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
