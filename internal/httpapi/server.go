package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	_ "pluginbuilder/internal/httpapi/docs"
	"pluginbuilder/internal/scaffold"
	"pluginbuilder/internal/session"
	"pluginbuilder/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ready() bool
	Status() types.StatusResponse
	Projects() ([]types.Project, error)
	Templates() []types.Template
	Create(ctx context.Context, name string, kind scaffold.TemplateKind) (scaffold.ProjectDescriptor, error)
	Open(ctx context.Context, name string) (scaffold.ProjectDescriptor, error)
	RestartSession() error
	CloseSession() error
	Configure() (string, error)
	Compile() (string, error)
	Clean() (string, error)
	Reload() (string, error)
	Install() (string, error)
	Dispatch(ctx context.Context, event, value string) error
	Drain() []session.Line
	LoaderStatus() (types.LoaderStatus, bool)
}

type handlers struct{ svc Service }

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		origins, methods, headers := corsDefaults()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: methods,
			AllowedHeaders: headers,
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := handlers{svc: svc}
	r.Get("/status", h.status)
	r.Get("/projects", h.projects)
	r.Get("/templates", h.templates)
	r.Get("/output", h.output)
	r.Get("/loader", h.loader)
	r.Post("/projects", h.create)
	r.Post("/open", h.open)
	r.Post("/session/start", h.action("session_start", func() (types.ActionResponse, error) {
		return types.ActionResponse{Status: "ok"}, svc.RestartSession()
	}))
	r.Post("/session/close", h.action("session_close", func() (types.ActionResponse, error) {
		return types.ActionResponse{Status: "ok"}, svc.CloseSession()
	}))
	r.Post("/configure", h.action("configure", commandAction(svc.Configure)))
	r.Post("/compile", h.action("compile", commandAction(svc.Compile)))
	r.Post("/clean", h.action("clean", commandAction(svc.Clean)))
	r.Post("/reload", h.action("reload", pathAction(svc.Reload)))
	r.Post("/install", h.action("install", pathAction(svc.Install)))
	r.Post("/callbacks/{event}", h.callback)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("templates missing"))
	})

	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	})
	MountSwagger(r)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

func commandAction(fn func() (string, error)) func() (types.ActionResponse, error) {
	return func() (types.ActionResponse, error) {
		cmd, err := fn()
		return types.ActionResponse{Status: "ok", Command: cmd}, err
	}
}

func pathAction(fn func() (string, error)) func() (types.ActionResponse, error) {
	return func() (types.ActionResponse, error) {
		p, err := fn()
		return types.ActionResponse{Status: "ok", Path: p}, err
	}
}

// action wraps a body-less POST that returns an ActionResponse.
func (h handlers) action(name string, fn func() (types.ActionResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp, err := fn()
		if err != nil {
			status := statusForError(err)
			writeJSONError(w, status, err.Error())
			logAction(r, name, status, start, err)
			return
		}
		writeJSON(w, resp)
		logAction(r, name, http.StatusOK, start, nil)
	}
}

// decodeJSON reads a JSON body into v, writing the error response itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func projectOf(d scaffold.ProjectDescriptor) types.Project {
	return types.Project{Name: d.Name, OpType: string(d.OpType), Template: string(d.Kind), Dir: d.Dir}
}

// status godoc
// @Summary  Builder status
// @Tags     builder
// @Produce  json
// @Success  200 {object} types.StatusResponse
// @Router   /status [get]
func (h handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// projects godoc
// @Summary  List plugin projects on disk
// @Tags     projects
// @Produce  json
// @Success  200 {object} types.ProjectsResponse
// @Failure  500 {object} types.ErrorResponse
// @Router   /projects [get]
func (h handlers) projects(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.Projects()
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	if ps == nil {
		ps = []types.Project{}
	}
	writeJSON(w, types.ProjectsResponse{Projects: ps})
}

// templates godoc
// @Summary  List project templates
// @Tags     projects
// @Produce  json
// @Success  200 {object} types.TemplatesResponse
// @Router   /templates [get]
func (h handlers) templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.TemplatesResponse{Templates: h.svc.Templates()})
}

// create godoc
// @Summary  Create a plugin project, start its session, configure and compile
// @Tags     projects
// @Accept   json
// @Produce  json
// @Param    body body types.CreateRequest true "project"
// @Success  200 {object} types.Project
// @Failure  400 {object} types.ErrorResponse
// @Failure  409 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /projects [post]
func (h handlers) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req types.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, err := scaffold.ParseKind(req.Template)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	desc, err := h.svc.Create(ctx, req.Name, kind)
	if err != nil {
		status := statusForError(err)
		writeJSONError(w, status, err.Error())
		logAction(r, "create", status, start, err)
		return
	}
	writeJSON(w, projectOf(desc))
	logAction(r, "create", http.StatusOK, start, nil)
}

// open godoc
// @Summary  Select an existing project (empty name clears)
// @Tags     projects
// @Accept   json
// @Produce  json
// @Param    body body types.OpenRequest true "project"
// @Success  200 {object} types.Project
// @Failure  404 {object} types.ErrorResponse
// @Router   /open [post]
func (h handlers) open(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req types.OpenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	desc, err := h.svc.Open(ctx, req.Name)
	if err != nil {
		status := statusForError(err)
		writeJSONError(w, status, err.Error())
		logAction(r, "open", status, start, err)
		return
	}
	writeJSON(w, projectOf(desc))
	logAction(r, "open", http.StatusOK, start, nil)
}

// callback godoc
// @Summary  Host watcher or parameter callback
// @Tags     callbacks
// @Accept   json
// @Produce  json
// @Param    event path string true "name_changed, source_changed, build_config_changed, artifact_changed or output_mode_changed"
// @Param    body body types.CallbackRequest false "new value"
// @Success  200 {object} types.ActionResponse
// @Failure  400 {object} types.ErrorResponse
// @Router   /callbacks/{event} [post]
func (h handlers) callback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	event := chi.URLParam(r, "event")
	var req types.CallbackRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	ctx, cancel := requestContext(r)
	defer cancel()
	if err := h.svc.Dispatch(ctx, event, req.Value); err != nil {
		status := statusForError(err)
		writeJSONError(w, status, err.Error())
		logAction(r, event, status, start, err)
		return
	}
	writeJSON(w, types.ActionResponse{Status: "ok"})
	logAction(r, event, http.StatusOK, start, nil)
}

// output godoc
// @Summary  Drain captured build output
// @Tags     session
// @Produce  json
// @Success  200 {object} types.OutputResponse
// @Router   /output [get]
func (h handlers) output(w http.ResponseWriter, r *http.Request) {
	lines := h.svc.Drain()
	resp := types.OutputResponse{Lines: make([]types.OutputLine, 0, len(lines)), Dropped: h.svc.Status().Session.Dropped}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, types.OutputLine{Seq: l.Seq, Text: l.Text, TimeUnixMs: l.Time.UnixMilli()})
	}
	writeJSON(w, resp)
}

// loader godoc
// @Summary  Desired state of the host plugin loader
// @Tags     loader
// @Produce  json
// @Success  200 {object} types.LoaderStatus
// @Failure  404 {object} types.ErrorResponse
// @Router   /loader [get]
func (h handlers) loader(w http.ResponseWriter, r *http.Request) {
	st, ok := h.svc.LoaderStatus()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "loader state is managed by the host")
		return
	}
	writeJSON(w, st)
}
