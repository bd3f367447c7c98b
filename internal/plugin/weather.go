package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/natter-sh/natter/internal/config"
)

// Weather looks up current weather by city name.
type Weather struct {
	client  *http.Client
	baseURL string
	apiKey  string
	units   string
}

// NewWeather creates a weather plugin from config.
func NewWeather(cfg config.WeatherConfig, timeout time.Duration) *Weather {
	return &Weather{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		units:   cfg.Units,
	}
}

func (w *Weather) Name() string {
	return "weather"
}

// weatherResponse mirrors the fields we read from the current-weather
// endpoint; everything else rides along in the raw payload.
type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (w *Weather) Run(ctx context.Context, city string) (*Result, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", w.units)
	q.Set("appid", w.apiKey)

	reqURL := fmt.Sprintf("%s/weather?%s", w.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather lookup returned HTTP %d", resp.StatusCode)
	}

	var parsed weatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("malformed weather response: %w", err)
	}
	if len(parsed.Weather) == 0 {
		return nil, fmt.Errorf("weather response missing conditions")
	}

	temp := strconv.FormatFloat(parsed.Main.Temp, 'f', -1, 64)
	return &Result{
		Content: fmt.Sprintf("Weather in %s: %s, %s°C", city, parsed.Weather[0].Description, temp),
		Data:    json.RawMessage(body),
	}, nil
}
