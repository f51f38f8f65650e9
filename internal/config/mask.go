// SPDX-License-Identifier: MIT

package config

import "net/url"

// maskURL removes user info from URL-looking values so credentials in
// playlist URLs never reach the logs.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	if u.User != nil {
		u.User = url.User("redacted")
	}
	q := u.Query()
	for _, key := range []string{"password", "pass", "token"} {
		if q.Has(key) {
			q.Set(key, "redacted")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// MaskURL is the exported form of maskURL for other packages' logs.
func MaskURL(raw string) string { return maskURL(raw) }
