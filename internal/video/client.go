// Package video implements the video/confidence evaluation client against a
// TwelveLabs-style video understanding API. One evaluation is strictly
// sequential: create index (unless pre-provisioned), upload the clip as an
// asset, submit it for indexing, poll the indexing job to a terminal state,
// then run the analysis prompt.
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/evaluator"
	"github.com/jonathan/interview-coach/internal/extract"
	"github.com/jonathan/interview-coach/internal/polling"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// placeholderConfidence is the canned result for placeholder mode.
var placeholderConfidence = types.ConfidenceResult{
	Score: 7,
	Feedback: []string{
		"Placeholder feedback: steady pacing with occasional hesitation.",
		"Placeholder feedback: keep your eyes on the camera between points.",
	},
}

// indexingModel is the video understanding model requested for new indexes.
const indexingModel = "pegasus1.2"

// Client evaluates a clip for delivery and confidence.
type Client struct {
	cfg      *config.Config
	http     *http.Client
	poller   *polling.Poller
	validate *validator.Validate
}

// New creates a video client with the configured polling budget and per-call
// timeout.
func New(cfg *config.Config) *Client {
	timeout := cfg.TwelveLabsTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: timeout},
		poller:   polling.New(cfg.PollInterval, cfg.PollLimit),
		validate: validator.New(),
	}
}

// SetPoller replaces the poller. Tests use this to avoid real intervals.
func (c *Client) SetPoller(p *polling.Poller) {
	c.poller = p
}

// Evaluate runs the full confidence evaluation for one clip. Placeholder mode
// short-circuits before the credential check and makes no network calls.
func (c *Client) Evaluate(ctx context.Context, clip []byte) (*types.ConfidenceResult, error) {
	if len(clip) == 0 {
		return nil, &evaluator.InputError{Message: "no video file received for feedback"}
	}
	if int64(len(clip)) > c.cfg.MaxUploadBytes() {
		return nil, &evaluator.PayloadTooLargeError{SizeBytes: int64(len(clip)), MaxBytes: c.cfg.MaxUploadBytes()}
	}

	if c.cfg.FeedbackPlaceholder() {
		result := placeholderConfidence
		return &result, nil
	}
	if !c.cfg.FeedbackEnabled() {
		return nil, &evaluator.ModeDisabledError{Stage: "Feedback", Hint: "Set FEEDBACK_MODE=live."}
	}
	if c.cfg.TwelveLabsAPIKey == "" {
		return nil, &evaluator.CredentialError{Name: "TWELVELABS_API_KEY"}
	}

	// Stage the clip for upload; released on every exit path.
	clipPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s.webm", uuid.NewString()))
	if err := os.WriteFile(clipPath, clip, 0600); err != nil {
		return nil, &evaluator.TransportError{Op: "staging clip", Cause: err}
	}
	defer func() { _ = os.Remove(clipPath) }()

	indexID := c.cfg.IndexID
	if indexID == "" {
		created, err := c.createIndex(ctx)
		if err != nil {
			return nil, err
		}
		indexID = created
	}

	assetID, err := c.uploadAsset(ctx, clipPath)
	if err != nil {
		return nil, err
	}

	jobID, err := c.createIndexedAsset(ctx, indexID, assetID)
	if err != nil {
		return nil, err
	}

	outcome, err := c.poller.Poll(ctx, func(ctx context.Context) (polling.Status, error) {
		return c.indexedAssetStatus(ctx, indexID, jobID)
	})
	if err != nil {
		return nil, &evaluator.TransportError{Op: "indexing poll", Cause: err}
	}
	switch outcome {
	case polling.OutcomeFailed:
		return nil, &evaluator.IndexingFailedError{JobID: jobID}
	case polling.OutcomeTimedOut:
		budget := c.poller.Interval * time.Duration(c.poller.MaxAttempts)
		return nil, &evaluator.IndexingTimedOutError{JobID: jobID, Budget: budget}
	}

	raw, err := c.analyze(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return c.parseConfidence(raw)
}

// createIndex provisions a fresh index for this evaluation.
func (c *Client) createIndex(ctx context.Context) (string, error) {
	body := map[string]any{
		"index_name": fmt.Sprintf("%s-%s", c.cfg.IndexNamePrefix, uuid.NewString()),
		"models": []map[string]any{
			{"model_name": indexingModel, "model_options": []string{"visual", "audio"}},
		},
	}

	var resp struct {
		ID string `json:"_id"`
	}
	if err := c.postJSON(ctx, "/indexes", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &IndexCreationError{}
	}
	return resp.ID, nil
}

// uploadAsset uploads the staged clip as a direct asset.
func (c *Client) uploadAsset(ctx context.Context, clipPath string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("method", "direct"); err != nil {
		return "", &evaluator.TransportError{Op: "asset upload", Cause: err}
	}
	fw, err := w.CreateFormFile("file", filepath.Base(clipPath))
	if err != nil {
		return "", &evaluator.TransportError{Op: "asset upload", Cause: err}
	}
	fd, err := os.Open(clipPath)
	if err != nil {
		return "", &evaluator.TransportError{Op: "asset upload", Cause: err}
	}
	defer fd.Close()
	if _, err = io.Copy(fw, fd); err != nil {
		return "", &evaluator.TransportError{Op: "asset upload", Cause: err}
	}
	if err = w.Close(); err != nil {
		return "", &evaluator.TransportError{Op: "asset upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TwelveLabsBaseURL+"/assets", &buf)
	if err != nil {
		return "", &evaluator.TransportError{Op: "asset upload", Cause: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("x-api-key", c.cfg.TwelveLabsAPIKey)

	var resp struct {
		ID string `json:"_id"`
	}
	if err := c.do(req, "asset upload", &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &UploadError{}
	}
	return resp.ID, nil
}

// createIndexedAsset submits the uploaded asset for indexing.
func (c *Client) createIndexedAsset(ctx context.Context, indexID, assetID string) (string, error) {
	var resp struct {
		ID string `json:"_id"`
	}
	path := fmt.Sprintf("/indexes/%s/indexed-assets", indexID)
	if err := c.postJSON(ctx, path, map[string]any{"asset_id": assetID}, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &IndexedAssetError{}
	}
	return resp.ID, nil
}

// indexedAssetStatus checks the indexing job once.
func (c *Client) indexedAssetStatus(ctx context.Context, indexID, jobID string) (polling.Status, error) {
	url := fmt.Sprintf("%s/indexes/%s/indexed-assets/%s", c.cfg.TwelveLabsBaseURL, indexID, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.cfg.TwelveLabsAPIKey)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return "", fmt.Errorf("status check %s: %s", httpResp.Status, string(body))
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("status decode: %w", err)
	}

	switch resp.Status {
	case "ready":
		return polling.StatusReady, nil
	case "failed":
		return polling.StatusFailed, nil
	default:
		return polling.StatusPending, nil
	}
}

// analyze runs the confidence rubric prompt against the indexed video.
func (c *Client) analyze(ctx context.Context, videoID string) (string, error) {
	body := map[string]any{
		"video_id": videoID,
		"prompt":   prompts.MustGet("evaluation.json", "confidence-feedback"),
	}

	var resp struct {
		Data string `json:"data"`
	}
	if err := c.postJSON(ctx, "/analyze", body, &resp); err != nil {
		return "", err
	}
	return resp.Data, nil
}

// parseConfidence extracts and validates the analysis response.
func (c *Client) parseConfidence(raw string) (*types.ConfidenceResult, error) {
	obj, err := extract.VariantObject(raw, extract.VariantConfidence)
	if err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "confidence feedback", Raw: raw, Cause: err}
	}

	// visual_feedback is an older single-string shape; fold it into the
	// feedback list so callers see one representation.
	if visual, ok := obj["visual_feedback"].(string); ok && obj["confidence_feedback"] == nil {
		obj["confidence_feedback"] = []string{visual}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "confidence feedback", Raw: raw, Cause: err}
	}

	var result types.ConfidenceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "confidence feedback", Raw: raw, Cause: err}
	}
	if err := c.validate.Struct(&result); err != nil {
		return nil, &evaluator.MalformedResponseError{Stage: "confidence feedback", Raw: raw, Cause: err}
	}

	result.Raw = raw
	return &result, nil
}

// postJSON posts a JSON body and decodes a JSON response.
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	op := "POST " + path

	payload, err := json.Marshal(body)
	if err != nil {
		return &evaluator.TransportError{Op: op, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TwelveLabsBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &evaluator.TransportError{Op: op, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.TwelveLabsAPIKey)

	return c.do(req, op, out)
}

// do executes a request and decodes the response, folding non-2xx statuses
// into transport errors with the body preserved.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &evaluator.TransportError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &evaluator.TransportError{Op: op, Cause: fmt.Errorf("%s: %s", resp.Status, string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &evaluator.TransportError{Op: op, Cause: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
