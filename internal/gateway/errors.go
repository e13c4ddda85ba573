package gateway

import (
	"fmt"
	"strings"
)

const (
	opFetchProfile      = "fetch profile"
	opFetchRepositories = "fetch repositories"
)

// RemoteFetchError reports that GitHub answered with a non-2xx status, or that
// no response arrived at all (StatusCode is 0 in that case).
type RemoteFetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s: status %d: %v", e.Op, e.StatusCode, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// MalformedResponseError reports a successful response whose body could not be
// turned into domain values.
type MalformedResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response to %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response to %s: %s", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

type count struct {
	name  string
	value int
}

// checkCounts rejects negative counters. prefix locates the record, e.g.
// "element 3: ".
func checkCounts(op, prefix string, counts ...count) error {
	var negative []string
	for _, c := range counts {
		if c.value < 0 {
			negative = append(negative, fmt.Sprintf("%s=%d", c.name, c.value))
		}
	}
	if len(negative) == 0 {
		return nil
	}
	return &MalformedResponseError{
		Op:     op,
		Reason: prefix + "negative " + strings.Join(negative, ", "),
	}
}
