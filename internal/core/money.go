// Package core provides the expense domain types and money handling.
//
// This file contains the conversion of user supplied amounts into decimals
// and their display formatting.
package core

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// ConversionError reports an amount that could not be read as a number.
type ConversionError struct {
	Input any
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("convert amount %v: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("convert amount %v: %v", e.Input, ErrConversion)
}

// Unwrap lets errors.Is(err, ErrConversion) match.
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

// ParseAmount converts a numeric value or numeric string into a decimal.
//
// Strings are trimmed and must use a dot as decimal separator; grouping
// commas are rejected rather than guessed at. Any sign is accepted. Floats go through their shortest representation so
// 12.5 stays 12.5 rather than picking up binary noise.
//
// Examples:
//
//	ParseAmount("12.50") -> 12.5
//	ParseAmount("1,000") -> *ConversionError
//	ParseAmount(-3)      -> -3
//	ParseAmount("abc")   -> *ConversionError
func ParseAmount(v any) (decimal.Decimal, error) {
	switch a := v.(type) {
	case decimal.Decimal:
		return a, nil
	case string:
		return parseAmountString(a)
	case float64:
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return decimal.Zero, &ConversionError{Input: v}
		}
		return decimal.NewFromFloat(a), nil
	case float32:
		if math.IsNaN(float64(a)) || math.IsInf(float64(a), 0) {
			return decimal.Zero, &ConversionError{Input: v}
		}
		return decimal.NewFromFloat32(a), nil
	case int:
		return decimal.NewFromInt(int64(a)), nil
	case int32:
		return decimal.NewFromInt32(a), nil
	case int64:
		return decimal.NewFromInt(a), nil
	case uint:
		return decimal.NewFromUint64(uint64(a)), nil
	case uint32:
		return decimal.NewFromUint64(uint64(a)), nil
	case uint64:
		return decimal.NewFromUint64(a), nil
	case fmt.Stringer:
		return parseAmountString(a.String())
	default:
		return parseAmountKind(v)
	}
}

// parseAmountKind handles the remaining integer and float widths and named
// numeric types by their underlying kind.
func parseAmountKind(v any) (decimal.Decimal, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, &ConversionError{Input: v}
		}
		if rv.Kind() == reflect.Float32 {
			return decimal.NewFromFloat32(float32(f)), nil
		}
		return decimal.NewFromFloat(f), nil
	case reflect.String:
		return parseAmountString(rv.String())
	default:
		return decimal.Zero, &ConversionError{Input: v, Err: fmt.Errorf("unsupported type %T", v)}
	}
}

func parseAmountString(s string) (decimal.Decimal, error) {
	in := s
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ConversionError{Input: in}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ConversionError{Input: in, Err: err}
	}
	return d, nil
}

// FormatAmount renders an amount with the given currency symbol,
// e.g. "£12.5". Negative values keep the sign before the symbol.
func FormatAmount(symbol string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + symbol + d.Neg().String()
	}
	return symbol + d.String()
}
