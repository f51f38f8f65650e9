// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Catalog fields
	FieldSource     = "source"
	FieldChannels   = "channels"
	FieldCategories = "categories"
	FieldChannelID  = "channel_id"
	FieldLine       = "line"

	// Path / URL fields
	FieldPath = "path"
	FieldURL  = "url"

	// HTTP fields
	FieldMethod     = "method"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
)
