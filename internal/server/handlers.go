package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/penance-hunter/internal/aggregate"
	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/report"
)

const (
	uploadField     = "file"
	defaultFileName = "upload.csv"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateReport builds a report from an export sent as the raw body or
// as the multipart field "file".
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	opts, err := s.optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	name, data, err := readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if q := strings.TrimSpace(r.URL.Query().Get("filename")); q != "" {
		name = q
	}

	rep, err := report.Build(filepath.Base(name), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) optionsFromQuery(q url.Values) (report.Options, error) {
	opts := report.Options{
		Defaults: s.defaults,
		Table: aggregate.TableFilter{
			Status:   q.Get("status"),
			Category: q.Get("category"),
			Class:    q.Get("class"),
		},
		Series: aggregate.SeriesFilter{
			Classes: report.SplitList(q.Get("classes")),
			Now:     s.now,
		},
	}

	var err error
	if opts.Series.Start, err = report.ParseDay(q.Get("start")); err != nil {
		return opts, err
	}
	if opts.Series.End, err = report.ParseDay(q.Get("end")); err != nil {
		return opts, err
	}
	if raw := q.Get("now"); raw != "" {
		if opts.Series.UntilNow, err = strconv.ParseBool(raw); err != nil {
			return opts, fmt.Errorf("%w: now must be a boolean", common.ErrInvalidFilter)
		}
	}

	return opts, nil
}

func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		return defaultFileName, data, err
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, err
		}
		return "", nil, &common.MalformedInputError{Err: fmt.Errorf("missing %q upload: %w", uploadField, err)}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	name := header.Filename
	if name == "" {
		name = defaultFileName
	}
	return name, data, nil
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrMalformedInput), errors.Is(err, common.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("Report request failed", "error", err, "path", r.URL.Path)
		msg = http.StatusText(status)
	}
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON encodes v before writing the header so an encoding failure can
// still be reported as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("Failed to encode response", "error", err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: http.StatusText(status)})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Error("Failed to write response", "error", err)
	}
}
