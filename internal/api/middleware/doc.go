// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP ingress middleware for the API server.
package middleware
