package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/tideman/pkg/ballot"
	"github.com/matzehuels/tideman/pkg/buildinfo"
	apperrors "github.com/matzehuels/tideman/pkg/errors"
	pkgio "github.com/matzehuels/tideman/pkg/io"
	"github.com/matzehuels/tideman/pkg/pipeline"
)

var validate = validator.New()

// mediaTypes maps request Content-Types to ballot formats.
var mediaTypes = map[string]pkgio.Format{
	"application/json":   pkgio.FormatJSON,
	"application/toml":   pkgio.FormatTOML,
	"application/yaml":   pkgio.FormatYAML,
	"application/x-yaml": pkgio.FormatYAML,
	"text/yaml":          pkgio.FormatYAML,
	"application/hcl":    pkgio.FormatHCL,
	"text/x-hcl":         pkgio.FormatHCL,
}

// renderQuery holds the query parameters of POST /v1/render.
type renderQuery struct {
	Format   string `validate:"required,oneof=svg png dot json"`
	Reduce   bool
	Skipped  bool
	Detailed bool
}

// tabulateResponse is the body of a successful POST /v1/tabulate.
type tabulateResponse struct {
	RunID  string          `json:"run_id"`
	Cached bool            `json:"cached"`
	Result json.RawMessage `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleTabulate(w http.ResponseWriter, r *http.Request) {
	set, err := readBallots(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, cached, err := s.runner.TabulateWithCacheInfo(r.Context(), set, pipeline.Options{Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := pkgio.MarshalResult(res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	runID := uuid.NewString()
	w.Header().Set("X-Run-ID", runID)
	writeJSON(w, http.StatusOK, tabulateResponse{RunID: runID, Cached: cached, Result: doc})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q, err := parseRenderQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	set, err := readBallots(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), set, pipeline.Options{
		Formats:     []string{q.Format},
		Reduce:      q.Reduce,
		ShowSkipped: q.Skipped,
		Detailed:    q.Detailed,
		Logger:      s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[q.Format])
	w.Header().Set("X-Run-ID", uuid.NewString())
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("ETag", strconv.Quote(result.ResultHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[q.Format])
}

// readBallots decodes the request body in the format named by the "input"
// query parameter or the Content-Type header, and checks candidate labels.
func readBallots(r *http.Request) (ballot.Set, error) {
	format := pkgio.FormatJSON
	if name := r.URL.Query().Get("input"); name != "" {
		f, err := pkgio.ParseFormat(name)
		if err != nil {
			return ballot.Set{}, err
		}
		format = f
	} else if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return ballot.Set{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid Content-Type")
		}
		f, ok := mediaTypes[mt]
		if !ok {
			return ballot.Set{}, apperrors.New(apperrors.ErrCodeUnsupported, "unsupported Content-Type %q", mt)
		}
		format = f
	}

	set, err := pkgio.ReadBallots(r.Body, format)
	if err != nil {
		return ballot.Set{}, err
	}
	for _, c := range set.Candidates {
		if err := apperrors.ValidateCandidateLabel(c.Name); err != nil {
			return ballot.Set{}, err
		}
		if c.Short != "" {
			if err := apperrors.ValidateCandidateLabel(c.Short); err != nil {
				return ballot.Set{}, err
			}
		}
	}
	return set, nil
}

func parseRenderQuery(r *http.Request) (renderQuery, error) {
	v := r.URL.Query()
	q := renderQuery{Format: v.Get("format")}
	if q.Format == "" {
		q.Format = pipeline.DefaultFormat
	}

	for name, dst := range map[string]*bool{
		"reduce":   &q.Reduce,
		"skipped":  &q.Skipped,
		"detailed": &q.Detailed,
	} {
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
		}
		*dst = b
	}

	if err := validate.Struct(q); err != nil {
		return q, apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, png, dot, json)", q.Format)
	}
	return q, nil
}
