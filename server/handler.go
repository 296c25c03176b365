package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
)

// graphQLHandler executes POSTed JSON bodies and GET query strings. With the
// console enabled, a browser GET without a query string gets the GraphiQL page
// instead. The page is not prefilled from the URL.
type graphQLHandler struct {
	schema  *graphql.Schema
	post    *relay.Handler
	console http.Handler
	logger  *zap.Logger
}

func newGraphQLHandler(schema *graphql.Schema, config Config, logger *zap.Logger) *graphQLHandler {
	h := &graphQLHandler{
		schema: schema,
		post:   &relay.Handler{Schema: schema},
		logger: logger,
	}
	if config.EnableGraphiQL {
		h.console = playground.Handler("bookshelf", config.Path)
	}

	return h
}

func (h *graphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.post.ServeHTTP(w, r)
	case http.MethodGet:
		if h.console != nil && acceptsHTML(r) && !r.URL.Query().Has("query") {
			h.console.ServeHTTP(w, r)
			return
		}
		h.serveGet(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests.")
	}
}

func (h *graphQLHandler) serveGet(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := params.Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Must provide query string.")
		return
	}
	operationName := params.Get("operationName")

	var variables map[string]interface{}
	if raw := params.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			writeError(w, http.StatusBadRequest, "Variables are invalid JSON.")
			return
		}
	}

	if isMutation(query, operationName) {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "Can only perform a mutation operation from a POST request.")
		return
	}

	response := h.schema.Exec(r.Context(), query, operationName, variables)
	if len(response.Errors) > 0 {
		h.logger.Debug("graphql query returned errors",
			zap.String("operation", operationName),
			zap.Int("errors", len(response.Errors)))
	}

	writeJSON(w, http.StatusOK, response)
}

// isMutation reports whether the operation that would run is a mutation.
// Documents that do not parse are left for the engine to reject.
func isMutation(query, operationName string) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return false
	}

	op := doc.Operations.ForName(operationName)
	return op != nil && op.Operation == ast.Mutation
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &graphql.Response{
		Errors: []*gqlerrors.QueryError{gqlerrors.Errorf("%s", message)},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
