package web

import (
	"errors"
	"net/http"
	"os"
	"time"

	kmyerrors "github.com/robinvdvleuten/kmy/errors"
	"github.com/robinvdvleuten/kmy/loader"
)

// SourceResponse is the JSON response structure for the source endpoint.
type SourceResponse struct {
	Filepath string                `json:"filepath"`
	Source   string                `json:"source"`
	Errors   []kmyerrors.ErrorJSON `json:"errors"`
	LoadedAt time.Time             `json:"loadedAt"`
}

// handleGetSource handles GET requests to /api/source.
// Returns the decompressed XML of the served file and the validation errors
// of the ledger currently in memory.
func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	source, err := loader.ReadSource(s.ledgerFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSONError(w, http.StatusNotFound, ErrorResponse{Error: "File not found"})
			return
		}
		writeJSONError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to read file"})
		return
	}

	s.mu.RLock()
	errs := kmyerrors.NewJSONFormatter(source).FormatAllToSlice(s.validation)
	loadedAt := s.loadedAt
	s.mu.RUnlock()

	writeJSONResponse(w, &SourceResponse{
		Filepath: s.ledgerFile,
		Source:   string(source),
		Errors:   errs,
		LoadedAt: loadedAt,
	})
}

// VersionResponse is the JSON response structure for the version endpoint.
type VersionResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commitSha"`
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, &VersionResponse{Version: s.Version, CommitSHA: s.CommitSHA})
}
