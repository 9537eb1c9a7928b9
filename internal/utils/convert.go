// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Error codes for type conversion
const (
	ErrCodeNilInput     = "TYPE_001"
	ErrCodeTypeMismatch = "TYPE_002"
)

// ConversionError represents a type conversion error with detailed context
type ConversionError struct {
	Code       string
	Message    string
	TargetType string
	Err        error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s (target: %s): %v", e.Code, e.Message, e.TargetType, e.Err)
	}
	return fmt.Sprintf("[%s] %s (target: %s)", e.Code, e.Message, e.TargetType)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// DecodeStruct converts a loosely typed JSON object into T. Unknown keys are
// ignored and missing keys keep their zero value.
func DecodeStruct[T any](input map[string]any) (T, error) {
	var out T
	target := reflect.TypeOf(out).String()

	if input == nil {
		return out, &ConversionError{Code: ErrCodeNilInput, Message: "input is nil", TargetType: target}
	}

	data, err := json.Marshal(input)
	if err != nil {
		return out, &ConversionError{Code: ErrCodeTypeMismatch, Message: "input is not JSON encodable", TargetType: target, Err: err}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &ConversionError{Code: ErrCodeTypeMismatch, Message: "input does not match target", TargetType: target, Err: err}
	}
	return out, nil
}
