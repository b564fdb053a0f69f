package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	ingestPrefix       = "/ingest"
	ingestStaticPrefix = "/ingest/static/"
)

// newIngestProxy forwards the browser analytics client's traffic, which is
// configured with "/ingest" as its API host, to the analytics service.
// Script and asset requests go to assetsHost, everything else to host.
func newIngestProxy(host, assetsHost string, log *zap.SugaredLogger) (http.Handler, error) {
	api, err := parseUpstream(host)
	if err != nil {
		return nil, err
	}
	assets := api
	if assetsHost != "" {
		if assets, err = parseUpstream(assetsHost); err != nil {
			return nil, err
		}
	}

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			target := api
			if strings.HasPrefix(r.In.URL.Path, ingestStaticPrefix) {
				target = assets
			}
			r.SetURL(target)
			r.Out.URL.Path = singleJoin(target.Path, strings.TrimPrefix(r.In.URL.Path, ingestPrefix))
			r.Out.URL.RawPath = ""
			r.Out.Host = target.Host
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warnw("analytics proxy error", "path", r.URL.Path, "err", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}, nil
}

func parseUpstream(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid analytics host %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid analytics host %q: scheme and host are required", raw)
	}
	return u, nil
}

func singleJoin(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
