package pricedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/eventstudy/internal/contracts"
	"github.com/wonny/eventstudy/pkg/httputil"
	"github.com/wonny/eventstudy/pkg/logger"
)

// DefaultNaverFrom is the earliest date requested when no range is set
var DefaultNaverFrom = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

var naverRowRe = regexp.MustCompile(`\["(\d{8})",\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+)`)

// NaverSource loads daily closes from the Naver Finance chart API
type NaverSource struct {
	client  *httputil.Client
	logger  *logger.Logger
	baseURL string
	code    string
	from    time.Time
	to      time.Time
	now     func() time.Time
}

// NewNaverSource creates a source for one stock code
func NewNaverSource(client *httputil.Client, log *logger.Logger, baseURL, code string) *NaverSource {
	return &NaverSource{
		client:  client,
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
		code:    code,
		from:    DefaultNaverFrom,
		now:     time.Now,
	}
}

// WithRange limits the requested date range (zero from means DefaultNaverFrom, zero to means today)
func (s *NaverSource) WithRange(from, to time.Time) *NaverSource {
	if from.IsZero() {
		from = DefaultNaverFrom
	}
	s.from = from
	s.to = to
	return s
}

// Load fetches the configured range
// ⭐ SSOT: Naver 차트 API 호출은 여기서만
func (s *NaverSource) Load(ctx context.Context, symbol string) (contracts.PriceSeries, error) {
	to := s.to
	if to.IsZero() {
		to = s.now()
	}

	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		s.baseURL, s.code, s.from.Format("20060102"), to.Format("20060102"),
	)

	resp, err := s.client.Get(ctx, fullURL)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("naver request %s: %w", s.code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.PriceSeries{}, fmt.Errorf("naver %s: unexpected status code: %d", s.code, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := parseNaverResponse(string(body))
	if err != nil {
		return contracts.PriceSeries{}, contracts.NewDataFormatError(symbol, "body", err.Error())
	}
	if len(bars) == 0 {
		return contracts.PriceSeries{}, contracts.NewDataFormatError(symbol, "Close", fmt.Sprintf("no rows for code %s", s.code))
	}

	s.logger.WithFields(map[string]interface{}{
		"asset":      symbol,
		"stock_code": s.code,
		"count":      len(bars),
	}).Debug("Fetched prices")

	return contracts.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// parseNaverResponse parses the single-quoted JSON array the chart API returns
func parseNaverResponse(body string) ([]contracts.PriceBar, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return parseNaverJSON(rawData)
	}

	// 정규식 fallback
	return parseNaverRegex(body)
}

func parseNaverJSON(rawData [][]interface{}) ([]contracts.PriceBar, error) {
	var bars []contracts.PriceBar
	for i, row := range rawData {
		if i == 0 || len(row) < 5 {
			continue // header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		date, err := time.Parse("20060102", strings.TrimSpace(dateStr))
		if err != nil {
			continue
		}

		closePx, ok := toFloat(row[4])
		if !ok {
			return nil, fmt.Errorf("row %d: unparsable close %v", i, row[4])
		}
		bars = append(bars, contracts.PriceBar{Date: date, Close: closePx})
	}
	return bars, nil
}

func parseNaverRegex(body string) ([]contracts.PriceBar, error) {
	matches := naverRowRe.FindAllStringSubmatch(body, -1)
	if matches == nil && strings.Contains(body, "[") {
		return nil, nil
	}
	if matches == nil {
		return nil, fmt.Errorf("unrecognized response")
	}

	bars := make([]contracts.PriceBar, 0, len(matches))
	for _, m := range matches {
		date, err := time.Parse("20060102", m[1])
		if err != nil {
			continue
		}
		closePx, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			continue
		}
		bars = append(bars, contracts.PriceBar{Date: date, Close: closePx})
	}
	return bars, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
