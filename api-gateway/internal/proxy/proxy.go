package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Proxy пробрасывает запросы в один сервис. Повторов нет: ошибка транспорта
// сразу превращается в 502.
type Proxy struct {
	target  *url.URL
	name    string
	proxy   *httputil.ReverseProxy
	logger  zerolog.Logger
	timeout time.Duration
}

type ProxyOption func(*Proxy)

func NewProxy(targetURL, name string, logger zerolog.Logger, options ...ProxyOption) (*Proxy, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.New("proxy target must be an absolute URL")
	}

	p := &Proxy{
		target: target,
		name:   name,
		logger: logger.With().Str("component", "proxy").Str("target", target.String()).Logger(),
	}

	for _, option := range options {
		option(p)
	}

	p.proxy = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		Transport:      p.transport(),
		ErrorHandler:   p.errorHandler,
		ModifyResponse: p.modifyResponse,
	}

	return p, nil
}

// WithTimeout ограничивает ожидание заголовков ответа; 0 - без ограничения.
func WithTimeout(timeout time.Duration) ProxyOption {
	return func(p *Proxy) {
		p.timeout = timeout
	}
}

func (p *Proxy) transport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = p.timeout
	return t
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(p.target)
	pr.SetXForwarded()

	p.logger.Debug().
		Str("method", pr.In.Method).
		Str("path", pr.In.URL.Path).
		Str("target_path", pr.Out.URL.Path).
		Msg("Proxying request")
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Proxy error")

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadGateway)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"type":    "about:blank",
		"title":   "Upstream service failure",
		"status":  http.StatusBadGateway,
		"detail":  p.name + " is unavailable",
		"service": p.name,
	})
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	p.logger.Debug().
		Str("method", resp.Request.Method).
		Str("path", resp.Request.URL.Path).
		Int("status", resp.StatusCode).
		Msg("Proxy response")

	resp.Header.Set("X-Service-Name", p.name)
	return nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}
