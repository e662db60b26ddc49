package ingest

import (
	"context"
	"encoding/json"
	"net/http"

	"pythia/internal/domain/entry"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// Pipeline is the batch processor behind the endpoint
type Pipeline interface {
	Process(ctx context.Context, req *entry.BatchRequest) (*entry.BatchResult, error)
}

// Handler exposes the batch ingestion endpoint
type Handler struct {
	pipeline Pipeline
	log      *logger.Logger
}

// NewHandler creates the ingestion handler
func NewHandler(pipeline Pipeline) *Handler {
	return &Handler{
		pipeline: pipeline,
		log:      logger.Get().With("component", "ingest_handler"),
	}
}

// storeTextRequest mirrors the collector wire format. Entries is a pointer so
// an absent field can be told apart from an empty list; only the former is a
// client error.
type storeTextRequest struct {
	Source  string            `json:"source"`
	Keyword string            `json:"keyword"`
	Entries *[]entry.RawEntry `json:"entries"`
}

type storeTextResponse struct {
	IDs       []string `json:"ids"`
	AverageID string   `json:"average_id,omitempty"`
	Message   string   `json:"msg"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleStoreText processes POST /store-text
func (h *Handler) HandleStoreText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	var req storeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Entries == nil {
		writeError(w, http.StatusBadRequest, "No data provided.")
		return
	}

	if req.Source == "" {
		req.Source = "Unknown"
	}
	if req.Keyword == "" {
		req.Keyword = "Undefined"
	}

	result, err := h.pipeline.Process(r.Context(), &entry.BatchRequest{
		Source:  req.Source,
		Keyword: req.Keyword,
		Entries: *req.Entries,
	})
	if err != nil {
		if errors.Is(err, errors.ErrUnsupportedAsset) {
			writeError(w, http.StatusUnprocessableEntity, "Unsupported asset: "+req.Keyword)
			return
		}
		h.log.Errorf("Batch processing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	resp := storeTextResponse{
		IDs:       result.StoredIDs,
		AverageID: result.AggregateID,
		Message:   result.Message,
	}
	if resp.IDs == nil {
		resp.IDs = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
