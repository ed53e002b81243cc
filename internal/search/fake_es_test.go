package search

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"property-search/internal/common/logger"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// fakeES is an httptest stand-in for an Elasticsearch node.
type fakeES struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request, body []byte)
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body []byte)) (*elasticsearch.Client, *fakeES) {
	t.Helper()
	f := &fakeES{handler: handler}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		f.handler(w, r, body)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client, f
}

func (f *fakeES) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeES) lastBody(t *testing.T) map[string]interface{} {
	t.Helper()
	calls := f.calls()
	require.NotEmpty(t, calls)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(calls[len(calls)-1].Body, &body))
	return body
}

func respond(status int, body string) func(w http.ResponseWriter, r *http.Request, _ []byte) {
	return func(w http.ResponseWriter, r *http.Request, _ []byte) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.IndexName = "properties"
	return cfg
}

func newTestEngine(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body []byte)) (*Engine, *fakeES) {
	t.Helper()
	client, f := newFakeES(t, handler)
	return NewEngine(createTestConfig(), client, createTestLogger(t), nil), f
}

// memoryIndex is a tiny document store behind the fake node: it supports
// index, get, bulk and a match-everything search sorted by id.
type memoryIndex struct {
	mu   sync.Mutex
	docs map[string]json.RawMessage
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{docs: map[string]json.RawMessage{}}
}

func (m *memoryIndex) handle(w http.ResponseWriter, r *http.Request, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodPut:
		_, existed := m.docs[parts[2]]
		m.docs[parts[2]] = append(json.RawMessage(nil), body...)
		result := "created"
		if existed {
			result = "updated"
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"_id":%q,"result":%q}`, parts[2], result)

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodGet:
		doc, ok := m.docs[parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"_id":%q,"found":false}`, parts[2])
			return
		}
		fmt.Fprintf(w, `{"_id":%q,"found":true,"_source":%s}`, parts[2], doc)

	case len(parts) == 2 && parts[1] == "_bulk":
		var items []string
		sc := bufio.NewScanner(bytes.NewReader(body))
		sc.Buffer(make([]byte, 1024*1024), 1024*1024)
		for sc.Scan() {
			var action struct {
				Index struct {
					ID string `json:"_id"`
				} `json:"index"`
			}
			if err := json.Unmarshal(sc.Bytes(), &action); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if !sc.Scan() {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			m.docs[action.Index.ID] = append(json.RawMessage(nil), sc.Bytes()...)
			items = append(items, fmt.Sprintf(`{"index":{"_id":%q,"status":201,"result":"created"}}`, action.Index.ID))
		}
		fmt.Fprintf(w, `{"errors":false,"items":[%s]}`, strings.Join(items, ","))

	case len(parts) == 2 && parts[1] == "_search":
		ids := make([]string, 0, len(m.docs))
		for id := range m.docs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		hits := make([]string, 0, len(ids))
		for _, id := range ids {
			hits = append(hits, fmt.Sprintf(`{"_id":%q,"_source":%s}`, id, m.docs[id]))
		}
		fmt.Fprintf(w, `{"hits":{"total":{"value":%d,"relation":"eq"},"hits":[%s]}}`, len(hits), strings.Join(hits, ","))

	default:
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error":"unsupported %s %s"}`, r.Method, r.URL.Path)
	}
}
