// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys used on playlist spans.
const (
	SourceNameKey      = "playlist.source"
	SourceKindKey      = "playlist.kind"
	SourceURIKey       = "playlist.uri"
	ChannelsKey        = "playlist.channels"
	CategoriesKey      = "playlist.categories"
	ContentBytesKey    = "playlist.bytes"
	ContentEncodingKey = "playlist.encoding"
	CompressionKey     = "playlist.compression"

	ErrorTypeKey = "error.type"
)

// LoadAttributes describes a playlist load before it runs.
func LoadAttributes(source, kind, uri string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(SourceKindKey, kind),
	}
	if source != "" {
		attrs = append(attrs, attribute.String(SourceNameKey, source))
	}
	if uri != "" {
		attrs = append(attrs, attribute.String(SourceURIKey, uri))
	}
	return attrs
}

// ResultAttributes describes a finished parse.
func ResultAttributes(bytes, channels, categories int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(ContentBytesKey, bytes),
		attribute.Int(ChannelsKey, channels),
		attribute.Int(CategoriesKey, categories),
	}
}

// ErrorAttributes classifies a failed load.
func ErrorAttributes(errType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("error", true),
		attribute.String(ErrorTypeKey, errType),
	}
}

// EncodingAttributes records how the content was decoded.
func EncodingAttributes(charset, compression string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ContentEncodingKey, charset),
		attribute.String(CompressionKey, compression),
	}
}
