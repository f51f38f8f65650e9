// SPDX-License-Identifier: MIT

// Package config loads the application configuration.
//
// Precedence is ENV > YAML file > defaults. The YAML file is parsed strictly:
// unknown keys are rejected.
package config
