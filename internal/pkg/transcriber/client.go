package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	tapi "github.com/CristianNieto3/Technician-Memo/internal/pkg/transcriber/api"
)

const (
	// DefaultModel is the ElevenLabs speech-to-text model
	DefaultModel = "scribe_v1"
	// DefaultURL is the ElevenLabs API root
	DefaultURL = "https://api.elevenlabs.io"

	sttPath = "/v1/speech-to-text"
)

// Client calls ElevenLabs speech-to-text API
type Client struct {
	httpclient *http.Client
	url        string
	key        string
	model      string
	timeout    time.Duration
}

// NewClient creates a speech-to-text client
func NewClient(url, key, model string, timeout time.Duration) (*Client, error) {
	res := Client{}
	if key == "" {
		return nil, fmt.Errorf("no api key")
	}
	if url == "" {
		url = DefaultURL
	}
	if !strings.HasPrefix(url, "http") {
		return nil, fmt.Errorf("no http in url '%s'", url)
	}
	res.url = strings.TrimSuffix(url, "/") + sttPath
	res.key = key
	res.model = model
	if res.model == "" {
		res.model = DefaultModel
	}
	res.timeout = timeout
	if res.timeout <= 0 {
		res.timeout = time.Minute * 2
	}
	res.httpclient = &http.Client{Transport: newTransport()}
	goapp.Log.Info().Str("url", res.url).Str("model", res.model).Dur("timeout", res.timeout).Msg("speech-to-text client")
	return &res, nil
}

// Transcribe sends audio with the language hint and returns the recognized text
func (sp *Client) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "audio")
	if err != nil {
		return "", fmt.Errorf("can't add file to request: %w", err)
	}
	if _, err = part.Write(audio); err != nil {
		return "", fmt.Errorf("can't add file content to request: %w", err)
	}
	for _, p := range [][2]string{{"model_id", sp.model}, {"language_code", languageCode},
		{"tag_audio_events", "false"}, {"diarize", "false"}} {
		if err := writer.WriteField(p[0], p[1]); err != nil {
			return "", fmt.Errorf("can't add param: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("can't close multipart: %w", err)
	}

	ctx, cancelF := context.WithTimeout(ctx, sp.timeout)
	defer cancelF()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sp.url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", sp.key)
	goapp.Log.Info().Str("url", req.URL.String()).Str("lang", languageCode).Int("bytes", len(audio)).Msg("call")
	resp, err := sp.httpclient.Do(req)
	if err != nil {
		return "", fmt.Errorf("can't call: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 10000))
		_ = resp.Body.Close()
	}()
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		return "", fmt.Errorf("can't invoke '%s': %w", req.URL.String(), err)
	}
	var respData tapi.Response
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", fmt.Errorf("can't decode response: %w", err)
	}
	goapp.Log.Debug().Str("lang", respData.LanguageCode).Int("len", len(respData.Text)).Msg("transcribed")
	return respData.Text, nil
}

func newTransport() http.RoundTripper {
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxIdleConns = 20
	res.MaxIdleConnsPerHost = 20
	res.IdleConnTimeout = 90 * time.Second
	return res
}
