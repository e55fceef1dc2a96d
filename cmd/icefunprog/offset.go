package main

import (
	"fmt"
	"strconv"
	"strings"
)

// ArgumentError reports a malformed command line value
type ArgumentError struct {
	Flag  string
	Value string
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Flag, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("'%s' is not a valid %s: %v", e.Value, e.Flag, e.Err)
	}
	return fmt.Sprintf("'%s' is not a valid %s", e.Value, e.Flag)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// parseOffset will parse a flash offset. The number may be decimal, 0x hex or
// 0 octal and may carry a k (x1024) or M (x1024*1024) suffix.
func parseOffset(s string) (uint32, error) {
	num, mult := s, uint64(1)
	switch {
	case strings.HasSuffix(s, "k"):
		num, mult = strings.TrimSuffix(s, "k"), 1024
	case strings.HasSuffix(s, "M"):
		num, mult = strings.TrimSuffix(s, "M"), 1024*1024
	}

	if num == "" || strings.Contains(num, "_") {
		return 0, &ArgumentError{Flag: "offset", Value: s}
	}

	v, err := strconv.ParseUint(num, 0, 32)
	if err != nil {
		return 0, &ArgumentError{Flag: "offset", Value: s, Err: err}
	}

	v *= mult
	if v > 1<<32-1 {
		return 0, &ArgumentError{Flag: "offset", Value: s}
	}

	return uint32(v), nil
}
