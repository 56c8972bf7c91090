package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "unknown product",
			err:     domain.NotFound("commerce.product", "product", "linen-print"),
			status:  http.StatusNotFound,
			code:    domain.ENOTFOUND,
			message: "product not found: linen-print",
		},
		{
			name:    "unknown option value",
			err:     domain.Errorf(domain.EINVALID, "variant.select", "%q is not a valid %s", "Teal", "Color"),
			status:  http.StatusBadRequest,
			code:    domain.EINVALID,
			message: `"Teal" is not a valid Color`,
		},
		{
			name:    "variant missing an option",
			err:     domain.Integrity("variant.index", "variant does not cover option Size"),
			status:  http.StatusBadGateway,
			code:    domain.EINTEGRITY,
			message: "An internal error occurred. Please try again later.",
		},
		{
			name:    "commerce backend down",
			err:     domain.Unavailable(errors.New("dial tcp: connection refused"), "commerce.product", "commerce backend unreachable"),
			status:  http.StatusServiceUnavailable,
			code:    domain.EUNAVAILABLE,
			message: "An internal error occurred. Please try again later.",
		},
		{
			name:    "database details stay hidden",
			err:     domain.Internal(nil, "content.get", "failed to connect to database at 192.168.1.100:5432"),
			status:  http.StatusInternalServerError,
			code:    domain.EINTERNAL,
			message: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products/linen-print", nil)
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()

			ErrorResponse(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorEnvelope
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestErrorResponse_PlainText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/linen-print", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	NotFoundResponse(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "The requested resource was not found")
}

func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		accept      string
		contentType string
		want        bool
	}{
		{name: "accept header", path: "/products", accept: "application/json", want: true},
		{name: "accept with charset", path: "/products", accept: "application/json; charset=utf-8", want: true},
		{name: "content type", path: "/products", contentType: "application/json", want: true},
		{name: "json suffix", path: "/products.json", want: true},
		{name: "browser", path: "/products", accept: "text/html,application/xhtml+xml"},
		{name: "no headers", path: "/products"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			assert.Equal(t, tt.want, AcceptsJSON(req))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusOK, map[string]string{"handle": "linen-print"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"handle":"linen-print"}`, rec.Body.String())
}
