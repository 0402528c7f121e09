package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasithasandunlakshan/inventory-console/internal/auth"
)

func newTestTokens(t *testing.T, accessToken string) *auth.TokenStore {
	t.Helper()
	store := auth.NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	if accessToken != "" {
		require.NoError(t, store.Save(accessToken))
	}
	return store
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	router := mux.NewRouter()
	router.HandleFunc("/api/purchase-orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id": 42}`))
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestTokens(t, "abc123"))

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/api/purchase-orders/42", nil, &out))
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, int64(42), out.ID)
}

func TestClientNoAuthHeaderWithoutToken(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestTokens(t, ""))
	require.NoError(t, c.GetJSON(context.Background(), "/ping", nil, nil))
}

func TestClientUnauthorizedClearsToken(t *testing.T) {
	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	tokens := newTestTokens(t, "stale")
	c := New(srv.URL, time.Second, tokens)

	err := c.GetJSON(context.Background(), "/api/purchase-orders", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, tokens.AccessToken(), "401 must clear the stored token")
}

func TestClientForbiddenAlsoUnauthorized(t *testing.T) {
	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestTokens(t, "x"))
	err := c.Delete(context.Background(), "/api/purchase-orders/1", nil)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestClientAPIErrorMessageEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error key", http.StatusBadRequest, `{"error":"invalid status"}`, "invalid status"},
		{"message key", http.StatusConflict, `{"message":"already received"}`, "already received"},
		{"detail key", http.StatusUnprocessableEntity, `{"detail":"quantity must be positive"}`, "quantity must be positive"},
		{"plain text", http.StatusInternalServerError, "boom", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second, nil)
			err := c.GetJSON(context.Background(), "/anything", nil, nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClientQueryEncoding(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/purchase-orders/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PENDING", r.URL.Query().Get("status"))
		assert.Equal(t, "steel bolts", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{}`))
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	query := url.Values{}
	query.Set("status", "PENDING")
	query.Set("q", "steel bolts")
	require.NoError(t, c.GetJSON(context.Background(), "/api/purchase-orders/search", query, nil))
}

func TestClientUploadMultipart(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/purchase-orders/{id}/attachments", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)

		assert.Equal(t, "invoice.pdf", header.Filename)
		assert.Equal(t, "pdf bytes", string(content))
		assert.Equal(t, "buyer@acme", r.FormValue("uploadedBy"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7, "fileName": "invoice.pdf"}`))
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)

	var out struct {
		ID       int64  `json:"id"`
		FileName string `json:"fileName"`
	}
	err := c.UploadMultipart(context.Background(), "/api/purchase-orders/3/attachments",
		"file", "invoice.pdf", strings.NewReader("pdf bytes"),
		map[string]string{"uploadedBy": "buyer@acme"}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
}

func TestClientDownloadFilename(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/purchase-orders/{id}/attachments/{attachmentId}/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="po-42.pdf"`)
		_, _ = w.Write([]byte("binary"))
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(router)
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	body, name, err := c.Download(context.Background(), "/api/purchase-orders/42/attachments/7/download", nil)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "po-42.pdf", name)
	assert.Equal(t, "binary", string(data))
}

func TestClientDecodesErrorBeforeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	var out map[string]any
	err := c.GetJSON(context.Background(), "/api/purchase-orders/999", nil, &out)

	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}
