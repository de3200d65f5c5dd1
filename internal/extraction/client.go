package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"clipers-engine/internal/common/config"
	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/common/httpclient"
)

// resultSchema validates extraction responses before they reach synthesis.
// A response missing the transcription or the profile object is treated the
// same as a transport failure.
const resultSchema = `{
	"type": "object",
	"required": ["transcription", "profile"],
	"properties": {
		"transcription": {"type": "string"},
		"profile": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"profession": {"type": "string"},
				"experience": {"type": "string"},
				"education": {"type": "string"},
				"technologies": {"type": "string"},
				"languages": {"type": "string"},
				"achievements": {"type": "string"},
				"softSkills": {"type": "string"}
			}
		}
	}
}`

// Extractor turns an uploaded video reference into structured candidate data.
type Extractor interface {
	Extract(ctx context.Context, mediaRef string) (*Result, error)
}

// Client calls the external video-processing service over HTTP.
type Client struct {
	baseURL string
	http    *httpclient.Client
	schema  *gojsonschema.Schema
	logger  *zap.Logger
}

func NewClient(cfg config.ExtractionConfig, logger *zap.Logger) (*Client, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
	if err != nil {
		return nil, fmt.Errorf("compile extraction schema: %w", err)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpclient.NewClient(cfg.GetTimeout()),
		schema:  schema,
		logger:  logger,
	}, nil
}

type extractRequest struct {
	MediaRef string `json:"mediaRef"`
}

func (c *Client) Extract(ctx context.Context, mediaRef string) (*Result, error) {
	payload, err := json.Marshal(extractRequest{MediaRef: mediaRef})
	if err != nil {
		return nil, apperrors.NewExtractionError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/extract", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewExtractionError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Extraction service call failed", zap.String("media_ref", mediaRef), zap.Error(err))
		return nil, apperrors.NewExtractionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExtractionError(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Extraction service returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("media_ref", mediaRef))
		return nil, apperrors.NewExtractionError(fmt.Errorf("extraction service status %d", resp.StatusCode))
	}

	validation, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, apperrors.NewExtractionError(err)
	}
	if !validation.Valid() {
		c.logger.Warn("Extraction response failed schema validation",
			zap.String("media_ref", mediaRef),
			zap.Any("violations", validation.Errors()))
		return nil, apperrors.NewExtractionError(fmt.Errorf("response schema violation: %v", validation.Errors()))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.NewExtractionError(err)
	}
	return &result, nil
}
