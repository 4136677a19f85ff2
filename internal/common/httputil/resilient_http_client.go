package httputil

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/central-university-dev/go-reminder-bot/internal/config"
	"github.com/central-university-dev/go-reminder-bot/internal/domain/errors"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

type ResilientHTTPClient struct {
	client         *resty.Client
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *slog.Logger
	serviceName    string
}

// CreateResilientHTTPClient собирает resty-клиент с circuit breaker'ом и
// ретраями на уровне транспорта. Его http.Client подкладывается под Telegram
// API, поэтому ретраи и предохранитель действуют и на запросы, ушедшие мимо
// resty, а ядро бота само никогда не ретраит отправки.
func CreateResilientHTTPClient(cfg *config.Config, logger *slog.Logger, serviceName string) *resty.Client {
	client := resty.New()

	client.SetTimeout(cfg.ExternalRequestTimeout)

	circuitBreakerSettings := gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(cfg.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: Значение из конфига
		Interval:    time.Duration(cfg.CBSlidingWindowSize) * time.Second,
		Timeout:     cfg.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(cfg.CBMinimumRequiredCalls) && //nolint:gosec // G115: Значение из конфига
				failureRatio >= float64(cfg.CBFailureRateThreshold)/100.0
		},
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(circuitBreakerSettings)

	resilientClient := &ResilientHTTPClient{
		client:         client,
		circuitBreaker: circuitBreaker,
		logger:         logger,
		serviceName:    serviceName,
	}

	retryableStatuses := make(map[int]struct{}, len(cfg.RetryableStatusCodes))
	for _, status := range cfg.RetryableStatusCodes {
		retryableStatuses[status] = struct{}{}
	}

	client.SetTransport(&CircuitBreakerTransport{
		resilientClient:   resilientClient,
		originalTransport: http.DefaultTransport,
		retryCount:        cfg.RetryCount,
		retryBackoff:      cfg.RetryBackoff,
		retryableStatuses: retryableStatuses,
	})

	return client
}

type CircuitBreakerTransport struct {
	resilientClient   *ResilientHTTPClient
	originalTransport http.RoundTripper
	retryCount        int
	retryBackoff      time.Duration
	retryableStatuses map[int]struct{}
}

// RoundTrip выполняет запрос с ретраями под защитой circuit breaker'а.
// Открытый предохранитель прерывает ретраи сразу: долбить лежащий сервис
// повторными попытками бессмысленно.
func (t *CircuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= t.retryCount; attempt++ {
		if attempt > 0 {
			if err := t.waitBackoff(req); err != nil {
				return nil, err
			}

			if err := rewindBody(req); err != nil {
				return nil, err
			}

			if t.resilientClient.logger != nil {
				t.resilientClient.logger.Info("HTTP client retry attempt",
					"service", t.resilientClient.serviceName,
					"url", req.URL.String(),
					"attempt", attempt+1,
				)
			}
		}

		resp, err := t.execute(req)
		if err == nil {
			return resp, nil
		}

		if stderrors.Is(err, gobreaker.ErrOpenState) {
			if t.resilientClient.logger != nil {
				t.resilientClient.logger.Warn("Circuit breaker is open",
					"service", t.resilientClient.serviceName,
					"url", req.URL.String(),
				)
			}

			return nil, err
		}

		lastErr = err

		var httpErr *errors.HTTPError
		if stderrors.As(err, &httpErr) {
			if _, retryable := t.retryableStatuses[httpErr.StatusCode]; !retryable {
				return nil, err
			}
		}

		if req.Body != nil && req.GetBody == nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (t *CircuitBreakerTransport) execute(req *http.Request) (*http.Response, error) {
	result, err := t.resilientClient.circuitBreaker.Execute(func() (interface{}, error) {
		resp, err := t.originalTransport.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, &errors.HTTPError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*http.Response), nil
}

func (t *CircuitBreakerTransport) waitBackoff(req *http.Request) error {
	timer := time.NewTimer(t.retryBackoff)
	defer timer.Stop()

	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}

// rewindBody перематывает тело запроса перед повторной попыткой. Запросы с
// телом без GetBody отсеиваются раньше, до входа в ретрай.
func rewindBody(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}

	body, err := req.GetBody()
	if err != nil {
		return err
	}

	req.Body = body

	return nil
}
