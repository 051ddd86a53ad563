// Package garmin implements the Garmin Connect client. It owns HTTP
// transport, token handling and retry policy; callers never see raw wire
// shapes beyond the typed records in types.go.
package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/sagarsiwach/garmin-sync/internal/cache"
	"github.com/sagarsiwach/garmin-sync/internal/observability"
)

const dateLayout = "2006-01-02"

// ClientConfig carries construction parameters for Client.
type ClientConfig struct {
	BaseURL  string
	Email    string
	Password string
	Timeout  time.Duration
	Cache    cache.Store
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// Client talks to Garmin Connect. It is safe for concurrent use; token
// state is guarded internally.
type Client struct {
	http     *resty.Client
	email    string
	password string
	store    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	token string
}

// NewClient builds a Client. The zero cache (nil) disables caching.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	store := cfg.Cache
	if store == nil {
		store = cache.Noop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:     httpClient,
		email:    cfg.Email,
		password: cfg.Password,
		store:    store,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Login exchanges the configured credentials for an access token. The SSO
// handshake itself happens server-side; this client only performs the final
// credential exchange against the configured base URL.
func (c *Client) Login(ctx context.Context) error {
	if c.email == "" || c.password == "" {
		return ErrMissingCredentials
	}

	var result loginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: c.email, Password: c.password}).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		observability.RecordLogin("error")
		return fmt.Errorf("garmin login: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		observability.RecordLogin("rejected")
		return fmt.Errorf("%w: status %d", ErrAuthentication, resp.StatusCode())
	case resp.StatusCode() == http.StatusTooManyRequests:
		observability.RecordLogin("throttled")
		return fmt.Errorf("%w: login", ErrRateLimited)
	case resp.IsError():
		observability.RecordLogin("error")
		return fmt.Errorf("garmin login: unexpected status %d", resp.StatusCode())
	case result.AccessToken == "":
		observability.RecordLogin("error")
		return fmt.Errorf("garmin login: empty token in response")
	}

	c.mu.Lock()
	c.token = result.AccessToken
	c.mu.Unlock()

	c.logger.Info("authenticated with Garmin Connect", zap.String("email", c.email))
	observability.RecordLogin("success")
	return nil
}

// historical reports whether date is strictly before today. Only historical
// days are cached; the current day keeps changing.
func (c *Client) historical(date string) bool {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	today := c.now().Format(dateLayout)
	return day.Format(dateLayout) < today
}

// getJSON performs one authenticated GET, classifies failures and decodes the
// body into out. When cacheable, the raw body is kept in the cache store.
func (c *Client) getJSON(ctx context.Context, category, path string, query url.Values, cacheable bool, out any) error {
	key := "garmin:" + path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	if cacheable && c.cacheTTL > 0 {
		if body, ok := c.store.Get(ctx, key); ok {
			observability.RecordUpstreamRequest(category, "cache_hit")
			return json.Unmarshal(body, out)
		}
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()

	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		observability.RecordUpstreamRequest(category, "error")
		return fmt.Errorf("garmin %s: %w", category, err)
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		observability.RecordUpstreamRequest(category, "auth_error")
		return fmt.Errorf("%w: %s", ErrAuthentication, category)
	case http.StatusTooManyRequests:
		observability.RecordUpstreamRequest(category, "throttled")
		return fmt.Errorf("%w: %s", ErrRateLimited, category)
	case http.StatusNotFound, http.StatusNoContent:
		observability.RecordUpstreamRequest(category, "no_data")
		return fmt.Errorf("%w: %s", ErrNotFound, category)
	}
	if resp.IsError() {
		observability.RecordUpstreamRequest(category, "error")
		return fmt.Errorf("garmin %s: unexpected status %d", category, resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 || string(body) == "null" {
		observability.RecordUpstreamRequest(category, "no_data")
		return fmt.Errorf("%w: %s", ErrNotFound, category)
	}
	if err := json.Unmarshal(body, out); err != nil {
		observability.RecordUpstreamRequest(category, "decode_error")
		return fmt.Errorf("garmin %s: decode response: %w", category, err)
	}

	if cacheable && c.cacheTTL > 0 {
		c.store.Set(ctx, key, body, c.cacheTTL)
	}
	observability.RecordUpstreamRequest(category, "success")
	return nil
}

// UserSummary fetches the daily wellness summary for date.
func (c *Client) UserSummary(ctx context.Context, date string) (*UserSummary, error) {
	var out UserSummary
	query := url.Values{"calendarDate": {date}}
	if err := c.getJSON(ctx, "user_summary", "/usersummary-service/usersummary/daily", query, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HeartRates fetches the all-day heart rate series for date.
func (c *Client) HeartRates(ctx context.Context, date string) (*HeartRateDay, error) {
	var out HeartRateDay
	query := url.Values{"date": {date}}
	if err := c.getJSON(ctx, "heart_rate", "/wellness-service/wellness/dailyHeartRate", query, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestingHeartRate fetches the wellness resting-HR reading for date.
func (c *Client) RestingHeartRate(ctx context.Context, date string) (*RestingHeartRate, error) {
	var out RestingHeartRate
	if err := c.getJSON(ctx, "resting_heart_rate", "/wellness-service/wellness/dailyRHR/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HRV fetches heart rate variability for date.
func (c *Client) HRV(ctx context.Context, date string) (*HRVData, error) {
	var out HRVData
	if err := c.getJSON(ctx, "hrv", "/hrv-service/hrv/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sleep fetches the sleep payload for date.
func (c *Client) Sleep(ctx context.Context, date string) (*SleepData, error) {
	var out SleepData
	query := url.Values{"date": {date}}
	if err := c.getJSON(ctx, "sleep", "/wellness-service/wellness/dailySleepData", query, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stress fetches daily stress for date.
func (c *Client) Stress(ctx context.Context, date string) (*StressDay, error) {
	var out StressDay
	if err := c.getJSON(ctx, "stress", "/wellness-service/wellness/dailyStress/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BodyBattery fetches the body battery series for date.
func (c *Client) BodyBattery(ctx context.Context, date string) ([]BodyBatteryReading, error) {
	var out []BodyBatteryReading
	query := url.Values{"startDate": {date}, "endDate": {date}}
	if err := c.getJSON(ctx, "body_battery", "/wellness-service/wellness/bodyBattery/reports/daily", query, c.historical(date), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Respiration fetches daily respiration for date.
func (c *Client) Respiration(ctx context.Context, date string) (*RespirationDay, error) {
	var out RespirationDay
	if err := c.getJSON(ctx, "respiration", "/wellness-service/wellness/daily/respiration/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpO2 fetches daily pulse-ox for date.
func (c *Client) SpO2(ctx context.Context, date string) (*SpO2Day, error) {
	var out SpO2Day
	if err := c.getJSON(ctx, "spo2", "/wellness-service/wellness/daily/spo2/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BodyComposition fetches weight data over an inclusive date range.
func (c *Client) BodyComposition(ctx context.Context, start, end string) (*BodyComposition, error) {
	var out BodyComposition
	query := url.Values{"startDate": {start}, "endDate": {end}}
	if err := c.getJSON(ctx, "body_composition", "/weight-service/weight/dateRange", query, c.historical(end), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activities fetches the most recent activities, newest first.
func (c *Client) Activities(ctx context.Context, limit int) ([]Activity, error) {
	var out []Activity
	query := url.Values{"start": {"0"}, "limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "activities", "/activitylist-service/activities/search/activities", query, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivitiesByDate fetches activities within an inclusive date range.
func (c *Client) ActivitiesByDate(ctx context.Context, start, end string) ([]Activity, error) {
	var out []Activity
	query := url.Values{"startDate": {start}, "endDate": {end}}
	if err := c.getJSON(ctx, "activities", "/activitylist-service/activities/search/activities", query, c.historical(end), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivityDetail fetches splits, HR zones, weather and gear for one activity.
// The sub-resources are fetched sequentially; a failing sub-resource is left
// empty rather than failing the whole detail, except for authentication
// errors which propagate.
func (c *Client) ActivityDetail(ctx context.Context, id int64) (*ActivityDetail, error) {
	observability.RecordDetailFetch()
	detail := &ActivityDetail{ActivityID: id}
	base := "/activity-service/activity/" + strconv.FormatInt(id, 10)

	var splits ActivitySplits
	if err := c.getJSON(ctx, "activity_splits", base+"/splits", nil, true, &splits); err != nil {
		if e := classifyDetailErr(err); e != nil {
			return nil, e
		}
		c.logger.Warn("activity splits unavailable", zap.Int64("activity_id", id), zap.Error(err))
	} else {
		detail.Splits = &splits
	}

	var zones []ActivityHRZone
	if err := c.getJSON(ctx, "activity_hr_zones", base+"/hrTimeInZones", nil, true, &zones); err != nil {
		if e := classifyDetailErr(err); e != nil {
			return nil, e
		}
		c.logger.Warn("activity HR zones unavailable", zap.Int64("activity_id", id), zap.Error(err))
	} else {
		detail.HRZones = zones
	}

	var weather ActivityWeather
	if err := c.getJSON(ctx, "activity_weather", base+"/weather", nil, true, &weather); err != nil {
		if e := classifyDetailErr(err); e != nil {
			return nil, e
		}
	} else {
		detail.Weather = &weather
	}

	var gear []GearItem
	query := url.Values{"activityId": {strconv.FormatInt(id, 10)}}
	if err := c.getJSON(ctx, "activity_gear", "/gear-service/gear/filter", query, true, &gear); err != nil {
		if e := classifyDetailErr(err); e != nil {
			return nil, e
		}
	} else {
		detail.Gear = gear
	}

	return detail, nil
}

// classifyDetailErr returns the error when it must propagate out of a detail
// sub-fetch, nil when the sub-resource should just be skipped.
func classifyDetailErr(err error) error {
	if errors.Is(err, ErrAuthentication) {
		return err
	}
	return nil
}

// TrainingReadiness fetches the readiness score for date.
func (c *Client) TrainingReadiness(ctx context.Context, date string) (*TrainingReadiness, error) {
	var out TrainingReadiness
	if err := c.getJSON(ctx, "training_readiness", "/metrics-service/metrics/trainingreadiness/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrainingStatus fetches the aggregated training status for date.
func (c *Client) TrainingStatus(ctx context.Context, date string) (*TrainingStatus, error) {
	var out TrainingStatus
	if err := c.getJSON(ctx, "training_status", "/metrics-service/metrics/trainingstatus/aggregated/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MaxMetrics fetches VO2 max metrics for date.
func (c *Client) MaxMetrics(ctx context.Context, date string) (*MaxMetrics, error) {
	var out MaxMetrics
	if err := c.getJSON(ctx, "max_metrics", "/metrics-service/metrics/maxmet/daily/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RacePredictions fetches the latest projected race times.
func (c *Client) RacePredictions(ctx context.Context) (*RacePredictions, error) {
	var out RacePredictions
	if err := c.getJSON(ctx, "race_predictions", "/metrics-service/metrics/racepredictions/latest", nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnduranceScore fetches the endurance score for date.
func (c *Client) EnduranceScore(ctx context.Context, date string) (*EnduranceScore, error) {
	var out EnduranceScore
	query := url.Values{"calendarDate": {date}}
	if err := c.getJSON(ctx, "endurance_score", "/metrics-service/metrics/endurancescore", query, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hydration fetches daily hydration for date.
func (c *Client) Hydration(ctx context.Context, date string) (*Hydration, error) {
	var out Hydration
	if err := c.getJSON(ctx, "hydration", "/usersummary-service/usersummary/hydration/daily/"+date, nil, c.historical(date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Devices fetches the registered devices for the account.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var out []Device
	if err := c.getJSON(ctx, "devices", "/device-service/deviceregistration/devices", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}
