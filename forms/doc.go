// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package forms holds herd form state and the pure checks run against it:
// completion progress, whether a species has anything to submit, request
// payload construction and the legacy required-field check.
package forms
