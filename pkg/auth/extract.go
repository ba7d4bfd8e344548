// pkg/auth/extract.go
package auth

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"c8ymcp/pkg/tenanturl"
)

// Extract parses the Authorization header into a credential. The tenant is
// taken from requestURL's scheme and host, never from the header: the header
// proves identity, the connection target names the tenant.
func Extract(h http.Header, requestURL *url.URL) (Credential, error) {
	authz := strings.TrimSpace(h.Get("Authorization"))
	if authz == "" {
		return nil, ErrMissingAuthorization
	}
	if requestURL == nil || requestURL.Scheme == "" || requestURL.Host == "" {
		return nil, ErrInvalidRequestURL
	}
	tenant := tenanturl.Normalize(requestURL.Scheme + "://" + requestURL.Host)

	scheme, payload, _ := strings.Cut(authz, " ")
	switch strings.ToLower(scheme) {
	case "basic":
		raw, err := decodeBasic(payload)
		if err != nil {
			return nil, ErrMalformedBasic
		}
		user, password, ok := strings.Cut(string(raw), ":")
		if !ok {
			return nil, ErrMalformedBasic
		}
		// "tenant/user" logins carry the tenant id as a prefix
		if _, u, found := strings.Cut(user, "/"); found {
			user = u
		}
		return Basic{User: user, Password: password, TenantURL: tenant}, nil
	case "bearer":
		if payload == "" {
			return nil, ErrEmptyBearerToken
		}
		return Bearer{Token: payload, TenantURL: tenant}, nil
	default:
		return nil, ErrUnsupportedScheme
	}
}

// RequestURL reconstructs the scheme and host an inbound request was
// addressed to. With trustForwarded, X-Forwarded-Proto and X-Forwarded-Host
// set by a fronting proxy take precedence.
func RequestURL(r *http.Request, trustForwarded bool) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if r.URL != nil && r.URL.Scheme != "" {
		scheme = r.URL.Scheme
	}
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	if trustForwarded {
		if p := firstValue(r.Header.Get("X-Forwarded-Proto")); p != "" {
			scheme = p
		}
		if h := firstValue(r.Header.Get("X-Forwarded-Host")); h != "" {
			host = h
		}
	}
	return &url.URL{Scheme: scheme, Host: host}
}

// FromRequest extracts the credential of an inbound request.
func FromRequest(r *http.Request, trustForwarded bool) (Credential, error) {
	return Extract(r.Header, RequestURL(r, trustForwarded))
}

func firstValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

// decodeBasic accepts padded and unpadded base64; some clients omit the
// trailing "=".
func decodeBasic(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	return raw, err
}
