package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"distributed-imaging/internal/domain"
	"distributed-imaging/internal/metrics"
	"distributed-imaging/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handler exposes the coordinator over HTTP.
type Handler struct {
	service        *usecase.ProcessingService
	maxUploadBytes int64
	logger         *slog.Logger
	validate       *validator.Validate
	tracer         trace.Tracer
}

// NewHandler creates the HTTP handler. maxUploadBytes bounds multipart
// request memory.
func NewHandler(service *usecase.ProcessingService, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "http-handler"),
		validate:       validator.New(),
		tracer:         otel.Tracer("distributed-imaging-api"),
	}
}

// Router builds the coordinator's route table.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.instrument("/", h.handleIndex))
	r.Get("/healthz", h.instrument("/healthz", h.handleHealth))
	r.Get("/transformations", h.instrument("/transformations", h.handleTransformations))

	r.Post("/images", h.instrument("/images", h.handleSubmitImage))
	r.Post("/images/batch", h.instrument("/images/batch", h.handleSubmitBatch))

	r.Get("/jobs/{id}", h.instrument("/jobs/{id}", h.handleJobStatus))
	r.Get("/jobs/{id}/result", h.instrument("/jobs/{id}/result", h.handleDownloadResult))

	r.Get("/batches/{id}", h.instrument("/batches/{id}", h.handleBatchStatus))
	r.Get("/batches/{id}/archive", h.instrument("/batches/{id}/archive", h.handleDownloadBatch))

	r.Get("/nodes", h.instrument("/nodes", h.handleNodes))
	r.Post("/nodes/sweep", h.instrument("/nodes/sweep", h.handleSweep))

	return r
}

// A helper struct to capture the status code
type instrumentedResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *instrumentedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// instrument wraps a handler with a server span and the request counter,
// labeled by route pattern rather than raw path.
func (h *Handler) instrument(pattern string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), "HTTP "+r.Method+" "+pattern, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		))
		defer span.End()

		iw := &instrumentedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		fn(iw, r.WithContext(ctx))

		metrics.HttpRequestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(iw.statusCode)).Inc()
		span.SetAttributes(attribute.Int("http.status_code", iw.statusCode))
		if iw.statusCode >= 500 {
			span.SetStatus(codes.Error, "Server Error")
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response body", "error", err)
	}
}

// writeError maps domain errors onto the response taxonomy: malformed input
// is 400, missing things 404, no capacity 503, everything else 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFileType),
		errors.Is(err, domain.ErrConfigMismatch),
		errors.Is(err, domain.ErrJobNotCompleted),
		errors.Is(err, domain.ErrBatchIncomplete):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrBatchNotFound),
		errors.Is(err, domain.ErrResultNotFound):
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNoNodesAvailable):
		h.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "distributed-imaging coordinator",
		"endpoints": []string{
			"POST /images",
			"POST /images/batch",
			"GET /jobs/{id}",
			"GET /jobs/{id}/result",
			"GET /batches/{id}",
			"GET /batches/{id}/archive",
			"GET /nodes",
			"POST /nodes/sweep",
			"GET /transformations",
			"GET /healthz",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTransformations(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{
		"transformations": h.service.SupportedTransformations(),
	})
}

// handleSubmitImage accepts one multipart upload: the file under "image",
// transformations as a comma-separated form field (repeatable), and
// parameters either as a JSON array under "parameters" or as individual
// "param_<name>" fields.
func (h *Handler) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed multipart request: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing file field 'image'"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, err)
		return
	}

	parameters, err := parseParameters(r.Form)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed parameters: " + err.Error()})
		return
	}

	result, err := h.service.SubmitImage(r.Context(), usecase.ImageUpload{
		Filename:        header.Filename,
		Data:            data,
		Transformations: splitList(r.Form["transformations"]),
		Parameters:      parameters,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, result)
}

// handleSubmitBatch accepts several files under "images" plus a
// "configurations" field holding a JSON array with one entry per file, in
// file order.
func (h *Handler) handleSubmitBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed multipart request: " + err.Error()})
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["images"]) == 0 {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing file field 'images'"})
		return
	}

	var configs []usecase.JobConfig
	if err := json.Unmarshal([]byte(r.FormValue("configurations")), &configs); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed configurations field: " + err.Error()})
		return
	}
	for _, cfg := range configs {
		if err := h.validate.Struct(cfg); err != nil {
			var details []string
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				for _, fieldErr := range validationErrors {
					details = append(details, "Field '"+fieldErr.Field()+"' failed on the '"+fieldErr.Tag()+"' tag.")
				}
			}
			h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid configuration", Details: details})
			return
		}
	}

	files := make([]usecase.UploadedFile, 0, len(r.MultipartForm.File["images"]))
	for _, header := range r.MultipartForm.File["images"] {
		src, err := header.Open()
		if err != nil {
			h.writeError(w, err)
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			h.writeError(w, err)
			return
		}
		files = append(files, usecase.UploadedFile{Filename: header.Filename, Data: data})
	}

	result, err := h.service.SubmitBatch(r.Context(), files, configs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, result)
}

func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.JobStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ToJobResponse(job))
}

func (h *Handler) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.BatchStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := BatchResponse{
		BatchID: status.BatchID,
		State:   string(status.State),
		Jobs:    make([]JobResponse, 0, len(status.Jobs)),
	}
	for _, job := range status.Jobs {
		resp.Jobs = append(resp.Jobs, ToJobResponse(job))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.service.Nodes(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if nodes == nil {
		nodes = []domain.NodeStatus{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"nodes": nodes})
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.SweepNow(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SweepResponse{DeactivatedNodes: count})
}

func (h *Handler) handleDownloadResult(w http.ResponseWriter, r *http.Request) {
	path, name, err := h.service.DownloadResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	http.ServeFile(w, r, path)
}

func (h *Handler) handleDownloadBatch(w http.ResponseWriter, r *http.Request) {
	path, err := h.service.DownloadBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// splitList flattens repeatable, comma-separated form values into one list.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// parseParameters reads transformation parameters from the form: a JSON
// array under "parameters" (order preserved), or individual "param_<name>"
// fields (sorted by name for determinism).
func parseParameters(form url.Values) ([]domain.TransformParameter, error) {
	if raw := form.Get("parameters"); raw != "" {
		var parameters []domain.TransformParameter
		if err := json.Unmarshal([]byte(raw), &parameters); err != nil {
			return nil, err
		}
		return parameters, nil
	}

	var names []string
	for key := range form {
		if strings.HasPrefix(key, "param_") {
			names = append(names, key)
		}
	}
	sort.Strings(names)

	var parameters []domain.TransformParameter
	for _, key := range names {
		parameters = append(parameters, domain.TransformParameter{
			Name:  strings.TrimPrefix(key, "param_"),
			Value: form.Get(key),
		})
	}
	return parameters, nil
}
