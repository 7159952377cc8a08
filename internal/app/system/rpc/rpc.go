// Package rpc is a small typed procedure layer over HTTP. Procedures are
// registered by dotted name ("platform.tenants.list"), declare an
// authorization tier, and exchange JSON envelopes:
//
//	200 {"result":{"data":...}}
//	4xx/5xx {"error":{"code":"FORBIDDEN","message":"..."}}
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/app/system/inputval"
	"github.com/dalemusser/tenanthub/internal/app/system/reqctx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxInputBytes bounds a procedure's JSON input.
const maxInputBytes = 1 << 20

// Kind distinguishes read-only queries from mutations.
type Kind int

const (
	Query Kind = iota
	Mutation
)

func (k Kind) String() string {
	if k == Mutation {
		return "mutation"
	}
	return "query"
}

// Call is what a procedure handler receives.
type Call struct {
	// RC is the gated request context.
	RC reqctx.Context
	// Auth holds records the tier check already loaded.
	Auth authz.Result

	W http.ResponseWriter
	R *http.Request

	input json.RawMessage
}

// Bind decodes the call input into v. Unknown fields are rejected. An empty
// input leaves v untouched.
func (c *Call) Bind(v any) error {
	if len(bytes.TrimSpace(c.input)) == 0 || bytes.Equal(bytes.TrimSpace(c.input), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(c.input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return Wrap(CodeBadRequest, "invalid input", err)
	}
	return nil
}

// BindValid is Bind followed by the validate tags of v. The first failed
// rule becomes a BAD_REQUEST.
func (c *Call) BindValid(v any) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	if res := inputval.Validate(v); res.HasErrors() {
		return BadRequest(res.First())
	}
	return nil
}

// Handler implements a procedure.
type Handler func(ctx context.Context, call *Call) (any, error)

// Procedure is a registered endpoint.
type Procedure struct {
	Name    string
	Kind    Kind
	Tier    authz.Tier
	Handler Handler
}

// Router dispatches /rpc/{procedure} requests.
type Router struct {
	procs   map[string]Procedure
	checker *authz.Checker
	logger  *zap.Logger
}

// NewRouter returns an empty Router.
func NewRouter(checker *authz.Checker, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{procs: make(map[string]Procedure), checker: checker, logger: logger}
}

// Register adds p. Registering a name twice panics; it is a wiring bug.
func (rt *Router) Register(p Procedure) {
	if p.Name == "" || p.Handler == nil {
		panic("rpc: procedure needs a name and a handler")
	}
	if _, dup := rt.procs[p.Name]; dup {
		panic(fmt.Sprintf("rpc: procedure %q registered twice", p.Name))
	}
	rt.procs[p.Name] = p
}

// Query registers a query procedure.
func (rt *Router) Query(name string, tier authz.Tier, h Handler) {
	rt.Register(Procedure{Name: name, Kind: Query, Tier: tier, Handler: h})
}

// Mutation registers a mutation procedure.
func (rt *Router) Mutation(name string, tier authz.Tier, h Handler) {
	rt.Register(Procedure{Name: name, Kind: Mutation, Tier: tier, Handler: h})
}

// Names returns the registered procedure names, sorted.
func (rt *Router) Names() []string {
	names := make([]string, 0, len(rt.procs))
	for n := range rt.procs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Routes returns a subrouter to mount at /rpc.
func (rt *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{procedure}", rt.ServeHTTP)
	r.Post("/{procedure}", rt.ServeHTTP)
	return r
}

// ServeHTTP runs one procedure call.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "procedure")
	p, ok := rt.procs[name]
	if !ok {
		rt.writeError(w, r, name, Errorf(CodeNotFound, "no procedure %q", name))
		return
	}

	switch {
	case p.Kind == Mutation && r.Method != http.MethodPost:
		rt.writeError(w, r, name, Errorf(CodeMethodNotSupported, "%s is a mutation; use POST", name))
		return
	case r.Method != http.MethodGet && r.Method != http.MethodPost:
		rt.writeError(w, r, name, Errorf(CodeMethodNotSupported, "unsupported method %s", r.Method))
		return
	}

	input, err := readInput(r)
	if err != nil {
		rt.writeError(w, r, name, err)
		return
	}

	ctx := r.Context()
	rc := reqctx.From(ctx)

	res, err := rt.checker.Check(ctx, rc, p.Tier)
	if err != nil {
		rt.writeError(w, r, name, err)
		return
	}

	call := &Call{RC: rc, Auth: res, W: w, R: r, input: input}
	data, err := p.Handler(ctx, call)
	if err != nil {
		rt.writeError(w, r, name, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"result": map[string]any{"data": data},
	})
}

func readInput(r *http.Request) (json.RawMessage, error) {
	if r.Method == http.MethodGet {
		return json.RawMessage(r.URL.Query().Get("input")), nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxInputBytes+1))
	if err != nil {
		return nil, Wrap(CodeBadRequest, "could not read input", err)
	}
	if len(body) > maxInputBytes {
		return nil, BadRequest("input too large")
	}
	return body, nil
}

type errorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, name string, err error) {
	re := classify(err)
	fields := []zap.Field{
		zap.String("procedure", name),
		zap.String("code", string(re.Code)),
		zap.String("user_id", reqctx.FromRequest(r).UserID()),
	}
	switch {
	case re.Code == CodeInternal:
		rt.logger.Error("rpc procedure failed", append(fields, zap.Error(err))...)
	case re.Code == CodeUnauthorized || re.Code == CodeForbidden:
		rt.logger.Info("rpc call denied", fields...)
	default:
		rt.logger.Debug("rpc call rejected", append(fields, zap.Error(err))...)
	}

	WriteError(w, re)
}

// WriteError writes the error envelope for e with its mapped status. It is
// also used by middleware that rejects /rpc calls before they reach a Router.
func WriteError(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": errorBody{Code: e.Code, Message: e.Message},
	})
}
