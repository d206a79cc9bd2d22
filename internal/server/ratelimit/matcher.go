package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited lists GET paths that are never rate limited.
var unlimited = map[string]bool{"/health": true, "/metrics": true}

// unlimitedEndpoint is returned for paths in unlimited; a zero Limit disables limiting.
var unlimitedEndpoint = EndpointConfig{}

// MatchEndpoint returns the configuration for a request. An exact path match wins over
// a prefix entry (a Path ending in "/"). It returns nil when nothing applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && unlimited[path] {
		e := unlimitedEndpoint
		return &e
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
