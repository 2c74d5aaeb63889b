package services

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

	"go.uber.org/zap"

	"mindscreen/internal/models"
)

const (
	uploadAttempts = 3
	retryBackoff   = 600 * time.Millisecond
)

// Processor analyzes a stored speech sample. The HTTP implementation talks
// to an external pipeline; the local one only confirms receipt so the
// workflow keeps moving when no pipeline is configured.
type Processor interface {
	Process(ctx context.Context, audioPath, language string) (*models.SpeechUploadResponse, error)
}

// SpeechService stores uploaded audio and runs it through a Processor.
type SpeechService struct {
	log       *zap.Logger
	processor Processor
	audioDir  string
}

func NewSpeechService(log *zap.Logger, processor Processor, audioDir string) *SpeechService {
	return &SpeechService{log: log, processor: processor, audioDir: audioDir}
}

// Upload writes the audio to disk and submits it for processing. Processing
// is retried up to three times with a fixed pause between attempts; the
// sample stays on disk either way so a failed pipeline never loses data.
func (s *SpeechService) Upload(ctx context.Context, assessmentID, taskID, language string, audio io.Reader) (*models.SpeechUploadResponse, error) {
	audioPath, err := s.store(assessmentID, taskID, audio)
	if err != nil {
		return nil, fmt.Errorf("storing audio: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		resp, err := s.processor.Process(ctx, audioPath, language)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		s.log.Warn("Speech processing attempt failed",
			zap.Int("attempt", attempt),
			zap.String("taskID", taskID),
			zap.Error(err),
		)
		if attempt < uploadAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("speech processing failed after %d attempts: %w", uploadAttempts, lastErr)
}

func (s *SpeechService) store(assessmentID, taskID string, audio io.Reader) (string, error) {
	dir := filepath.Join(s.audioDir, filepath.Base(assessmentID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.webm", filepath.Base(taskID), time.Now().UnixMilli()))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, audio); err != nil {
		return "", err
	}
	return path, nil
}

// HTTPProcessor posts audio samples to an external analysis pipeline.
type HTTPProcessor struct {
	log     *zap.Logger
	baseURL string
	client  *http.Client
}

func NewHTTPProcessor(log *zap.Logger, baseURL string, timeout time.Duration) *HTTPProcessor {
	return &HTTPProcessor{
		log:     log,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProcessor) Process(ctx context.Context, audioPath, language string) (*models.SpeechUploadResponse, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := writer.WriteField("language", language); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/analyze", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech pipeline returned status %d", resp.StatusCode)
	}

	var parsed models.SpeechUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding pipeline response: %w", err)
	}
	return &parsed, nil
}

// LocalProcessor acknowledges samples without analyzing them. Used when no
// pipeline URL is configured so assessments still complete offline.
type LocalProcessor struct {
	log *zap.Logger
}

func NewLocalProcessor(log *zap.Logger) *LocalProcessor {
	return &LocalProcessor{log: log}
}

func (p *LocalProcessor) Process(ctx context.Context, audioPath, language string) (*models.SpeechUploadResponse, error) {
	p.log.Info("No speech pipeline configured, acknowledging sample locally",
		zap.String("path", audioPath),
	)
	return &models.SpeechUploadResponse{
		Success:  true,
		Warnings: []string{"Speech analysis unavailable; sample stored for later processing."},
	}, nil
}
