package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/getdiced/cardmirror/internal/config"
	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/internal/utils"
	"github.com/getdiced/cardmirror/models"
)

type httpCatalogClient struct {
	client *utils.HTTPClient

	catalogManifestPath string
	catalogBlobPath     string
	imageManifestPath   string
	imageBlobPath       string

	logger *logger.Logger
}

// NewHTTPCatalogClient constructs an HTTP implementation of [Client].
// It normalises and validates the base URL from remoteCfg.BaseURL and
// configures the underlying HTTP client with the resolved base URL and
// per-request timeout.
//
// Returns an error if remoteCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPCatalogClient(remoteCfg config.Remote, log *logger.Logger) (Client, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(remoteCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(remoteCfg.RequestTimeout).
		SetHeader("User-Agent", "cardmirror/1.0")

	return &httpCatalogClient{
		client:              client,
		catalogManifestPath: remoteCfg.CatalogManifestPath,
		catalogBlobPath:     remoteCfg.CatalogBlobPath,
		imageManifestPath:   remoteCfg.ImageManifestPath,
		imageBlobPath:       remoteCfg.ImageBlobPath,
		logger:              log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchCatalogManifest implements [Client]. It GETs the catalog manifest
// endpoint and decodes the version descriptor. A descriptor with a
// non-positive version or an empty blob name is rejected as
// [ErrRemoteFormat].
func (h *httpCatalogClient) FetchCatalogManifest(ctx context.Context) (models.CatalogManifest, error) {
	resp, err := h.client.R().SetContext(ctx).Get(h.catalogManifestPath)
	if err != nil {
		return models.CatalogManifest{}, fmt.Errorf("%w: catalog manifest request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CatalogManifest{}, err
	}

	var manifest models.CatalogManifest
	if err = json.Unmarshal(resp.Body(), &manifest); err != nil {
		return models.CatalogManifest{}, fmt.Errorf("%w: decode catalog manifest: %v", ErrRemoteFormat, err)
	}
	if manifest.Version <= 0 || manifest.Filename == "" || manifest.SizeBytes <= 0 {
		return models.CatalogManifest{}, fmt.Errorf("%w: catalog manifest missing version, filename or size", ErrRemoteFormat)
	}

	h.logger.Debug().
		Int64("version", manifest.Version).
		Int64("size_bytes", manifest.SizeBytes).
		Msg("fetched catalog manifest")

	return manifest, nil
}

// FetchCatalogBlob implements [Client]. It downloads the snapshot blob for
// manifest in one request. Size verification is left to the swap engine.
func (h *httpCatalogClient) FetchCatalogBlob(ctx context.Context, manifest models.CatalogManifest) ([]byte, error) {
	resp, err := h.client.R().SetContext(ctx).Get(h.catalogBlobPath)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog blob request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	h.logger.Debug().
		Int64("version", manifest.Version).
		Int("bytes", len(resp.Body())).
		Msg("downloaded catalog blob")

	return resp.Body(), nil
}

// FetchImageManifest implements [Client]. It GETs the image manifest
// endpoint and decodes the asset map. A manifest without an image map is
// rejected as [ErrRemoteFormat]; entries with an empty hash or path are
// rejected too, since they could never be verified.
func (h *httpCatalogClient) FetchImageManifest(ctx context.Context) (models.ImageManifest, error) {
	resp, err := h.client.R().SetContext(ctx).Get(h.imageManifestPath)
	if err != nil {
		return models.ImageManifest{}, fmt.Errorf("%w: image manifest request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ImageManifest{}, err
	}

	var manifest models.ImageManifest
	if err = json.Unmarshal(resp.Body(), &manifest); err != nil {
		return models.ImageManifest{}, fmt.Errorf("%w: decode image manifest: %v", ErrRemoteFormat, err)
	}
	if manifest.Images == nil {
		return models.ImageManifest{}, fmt.Errorf("%w: image manifest has no image map", ErrRemoteFormat)
	}
	for assetID, entry := range manifest.Images {
		if entry.Hash == "" || entry.Path == "" {
			return models.ImageManifest{}, fmt.Errorf("%w: image manifest entry %s missing hash or path", ErrRemoteFormat, assetID)
		}
	}

	h.logger.Debug().
		Int64("version", manifest.Version).
		Int("images", len(manifest.Images)).
		Msg("fetched image manifest")

	return manifest, nil
}

// FetchImageBlob implements [Client]. It downloads a single image blob by
// its manifest-relative path. Hash verification is left to the reconciler.
func (h *httpCatalogClient) FetchImageBlob(ctx context.Context, relativePath string) ([]byte, error) {
	target := h.imageBlobPath + "/" + strings.TrimLeft(relativePath, "/")

	resp, err := h.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, fmt.Errorf("%w: image blob request %s: %v", ErrNetwork, relativePath, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("image blob %s: %w", relativePath, err)
	}

	return resp.Body(), nil
}

// mapHTTPError converts a non-2xx response into [ErrNetwork]. Server-side
// failures and missing resources are both treated as transient from the
// caller's point of view: local state is untouched and a later retry may
// succeed.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrNetwork, resp.StatusCode(), body)
}
