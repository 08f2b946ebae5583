package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/chat-transcript/internal/dialogue"
)

// BaiduOptions configures the Baidu general OCR engine.
type BaiduOptions struct {
	APIKey       string
	SecretKey    string
	TokenURL     string
	Endpoint     string
	LanguageType string
	Timeout      time.Duration
	TokenTimeout time.Duration
}

// Baidu calls the Baidu general OCR REST API.
type Baidu struct {
	tokens   *tokenSource
	httpc    *http.Client
	endpoint string
	langType string
}

func NewBaidu(opt BaiduOptions) *Baidu {
	return &Baidu{
		tokens:   newTokenSource(opt.TokenURL, opt.APIKey, opt.SecretKey, opt.TokenTimeout),
		httpc:    &http.Client{Timeout: opt.Timeout},
		endpoint: opt.Endpoint,
		langType: opt.LanguageType,
	}
}

func (b *Baidu) Name() string { return "baidu" }

type baiduLocation struct {
	Left   *int `json:"left"`
	Top    *int `json:"top"`
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

type baiduWord struct {
	Words    string         `json:"words"`
	Location *baiduLocation `json:"location"`
}

type baiduResponse struct {
	ErrorCode   json.Number `json:"error_code"`
	ErrorMsg    string      `json:"error_msg"`
	WordsResult []baiduWord `json:"words_result"`
}

func (b *Baidu) Recognize(ctx context.Context, image []byte) ([]dialogue.Fragment, error) {
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(image))
	form.Set("language_type", b.langType)
	form.Set("detect_direction", "true")
	form.Set("recognize_granularity", "big")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.endpoint+"?access_token="+url.QueryEscape(token),
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, wrapTransport("baidu ocr", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport("baidu ocr", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Provider: "baidu", Op: "ocr", StatusCode: resp.StatusCode, Msg: snippet(body)}
	}

	var out baiduResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	if out.ErrorCode != "" {
		return nil, &Error{Provider: "baidu", Op: "ocr", StatusCode: resp.StatusCode, Code: out.ErrorCode.String(), Msg: out.ErrorMsg}
	}

	return out.fragments(), nil
}

// fragments keeps items that have text and a complete bounding box.
func (r *baiduResponse) fragments() []dialogue.Fragment {
	frags := make([]dialogue.Fragment, 0, len(r.WordsResult))
	for _, w := range r.WordsResult {
		text := strings.TrimSpace(w.Words)
		loc := w.Location
		if text == "" || loc == nil {
			continue
		}
		if loc.Left == nil || loc.Top == nil || loc.Width == nil || loc.Height == nil {
			continue
		}
		frags = append(frags, dialogue.Fragment{
			Text:   text,
			Top:    *loc.Top,
			Left:   *loc.Left,
			Width:  *loc.Width,
			Height: *loc.Height,
		})
	}
	return frags
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if r := []rune(s); len(r) > 200 {
		return string(r[:200]) + "…"
	}
	return s
}
