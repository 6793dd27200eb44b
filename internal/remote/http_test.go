package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getdiced/cardmirror/internal/config"
	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

func testRemoteConfig(baseURL string) config.Remote {
	return config.Remote{
		BaseURL:             baseURL,
		CatalogManifestPath: "/api/cards/manifest",
		CatalogBlobPath:     "/api/cards/database",
		ImageManifestPath:   "/api/images/manifest",
		ImageBlobPath:       "/images",
		RequestTimeout:      5 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.Handler) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPCatalogClient(testRemoteConfig(srv.URL), logger.Nop())
	require.NoError(t, err)
	return client, srv
}

func TestNewHTTPCatalogClient_InvalidBaseURL(t *testing.T) {
	_, err := NewHTTPCatalogClient(config.Remote{BaseURL: ""}, logger.Nop())
	require.Error(t, err)
}

func TestFetchCatalogManifest(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "valid manifest",
			status: http.StatusOK,
			body:   `{"version": 5, "filename": "cards-v5.db", "size_bytes": 1000, "generated": "2026-08-01T10:00:00Z"}`,
		},
		{
			name:    "malformed json",
			status:  http.StatusOK,
			body:    `{"version": `,
			wantErr: ErrRemoteFormat,
		},
		{
			name:    "missing filename",
			status:  http.StatusOK,
			body:    `{"version": 5, "size_bytes": 1000}`,
			wantErr: ErrRemoteFormat,
		},
		{
			name:    "zero version",
			status:  http.StatusOK,
			body:    `{"version": 0, "filename": "cards.db", "size_bytes": 1000}`,
			wantErr: ErrRemoteFormat,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    "boom",
			wantErr: ErrNetwork,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    "",
			wantErr: ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/cards/manifest", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			manifest, err := client.FetchCatalogManifest(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(5), manifest.Version)
			assert.Equal(t, "cards-v5.db", manifest.Filename)
			assert.Equal(t, int64(1000), manifest.SizeBytes)
		})
	}
}

func TestFetchCatalogManifest_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing is listening any more

	client, err := NewHTTPCatalogClient(testRemoteConfig(srv.URL), logger.Nop())
	require.NoError(t, err)

	_, err = client.FetchCatalogManifest(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchCatalogBlob(t *testing.T) {
	payload := []byte("sqlite snapshot bytes")
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cards/database", r.URL.Path)
		_, _ = w.Write(payload)
	}))

	blob, err := client.FetchCatalogBlob(context.Background(), models.CatalogManifest{Version: 5, Filename: "cards-v5.db", SizeBytes: int64(len(payload))})
	require.NoError(t, err)
	assert.Equal(t, payload, blob)
}

func TestFetchImageManifest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantLen int
	}{
		{
			name:    "valid manifest",
			body:    `{"version": 3, "generated": "2026-08-01T10:00:00Z", "image_count": 2, "images": {"aa11": {"hash": "h1", "path": "aa/aa11.webp"}, "bb22": {"hash": "h2", "path": "bb/bb22.webp"}}}`,
			wantLen: 2,
		},
		{
			name:    "no image map",
			body:    `{"version": 3, "image_count": 0}`,
			wantErr: ErrRemoteFormat,
		},
		{
			name:    "entry without hash",
			body:    `{"version": 3, "images": {"aa11": {"path": "aa/aa11.webp"}}}`,
			wantErr: ErrRemoteFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/images/manifest", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			}))

			manifest, err := client.FetchImageManifest(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, manifest.Images, tt.wantLen)
			assert.Equal(t, "h1", manifest.Images["aa11"].Hash)
		})
	}
}

func TestFetchImageBlob_PathJoining(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("webp bytes"))
	}))

	blob, err := client.FetchImageBlob(context.Background(), "aa/aa11.webp")
	require.NoError(t, err)
	assert.Equal(t, []byte("webp bytes"), blob)
	assert.Equal(t, "/images/aa/aa11.webp", gotPath)

	// leading slash in the manifest path must not double up
	_, err = client.FetchImageBlob(context.Background(), "/bb/bb22.webp")
	require.NoError(t, err)
	assert.Equal(t, "/images/bb/bb22.webp", gotPath)
}

func TestFetchImageBlob_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	_, err := client.FetchImageBlob(context.Background(), "aa/gone.webp")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}
