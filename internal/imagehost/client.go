// Package imagehost talks to the external image hosting API. All image
// processing (resize, crop, effects) happens on the host side, this
// client only uploads originals and asks for derived URLs.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

type Transformation struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Crop   string `json:"crop,omitempty"`
	Effect string `json:"effect,omitempty"`
}

// Upload sends the image bytes and returns the hosted asset. The public
// id is generated client-side so a failed upload can be retried by the
// caller under the same id.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*Asset, error) {
	publicID := uuid.NewString()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("public_id", publicID); err != nil {
		return nil, fmt.Errorf("write field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/image/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed with status: %d", resp.StatusCode)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &asset, nil
}

// Transform asks the host for a derived URL of an already uploaded asset.
func (c *Client) Transform(ctx context.Context, publicID string, t Transformation) (string, error) {
	q := url.Values{}
	if t.Width > 0 {
		q.Set("width", strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		q.Set("height", strconv.Itoa(t.Height))
	}
	if t.Crop != "" {
		q.Set("crop", t.Crop)
	}
	if t.Effect != "" {
		q.Set("effect", t.Effect)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/image/transform/"+url.PathEscape(publicID)+"?"+q.Encode(),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transform failed with status: %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return result.URL, nil
}

func (c *Client) Destroy(ctx context.Context, publicID string) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.baseURL+"/image/"+url.PathEscape(publicID),
		nil,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("destroy failed with status: %d", resp.StatusCode)
	}
	return nil
}
