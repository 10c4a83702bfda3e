package testutils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/shurcooL/githubv4"
)

// GraphQLRequest er body-en githubv4 sender.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// StringVar henter en streng-variabel, "" hvis den mangler eller er null.
func (r GraphQLRequest) StringVar(name string) string {
	s, _ := r.Variables[name].(string)
	return s
}

// StatusError får FakeGraphQL til å svare med en HTTP-feilkode.
type StatusError struct {
	Code int
	Body string
}

func (e StatusError) Error() string { return e.Body }

// FakeGraphQL er en httptest-server som later som den er api.github.com/graphql.
type FakeGraphQL struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []GraphQLRequest
}

// NewFakeGraphQL starter serveren. handler returnerer "data"-objektet; en
// vanlig feil blir et GraphQL "errors"-svar.
func NewFakeGraphQL(handler func(req GraphQLRequest) (any, error)) *FakeGraphQL {
	f := &FakeGraphQL{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		data, err := handler(req)
		w.Header().Set("Content-Type", "application/json")

		var statusErr StatusError
		switch {
		case errors.As(err, &statusErr):
			w.WriteHeader(statusErr.Code)
			_, _ = w.Write([]byte(statusErr.Body))
		case err != nil:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data":   nil,
				"errors": []map[string]any{{"message": err.Error()}},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
		}
	}))
	return f
}

// Client returnerer en githubv4-klient som peker mot serveren.
func (f *FakeGraphQL) Client() *githubv4.Client {
	return githubv4.NewEnterpriseClient(f.Server.URL, f.Server.Client())
}

// Requests returnerer en kopi av alle forespørsler så langt.
func (f *FakeGraphQL) Requests() []GraphQLRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]GraphQLRequest(nil), f.requests...)
}

func (f *FakeGraphQL) Close() {
	f.Server.Close()
}
