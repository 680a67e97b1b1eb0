package model

import "errors"

var (
	// ErrMalformedPayload marks input that could not be decoded or holds no usable value.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrEmptySeries marks a series with zero usable points.
	ErrEmptySeries = errors.New("empty series")
	// ErrUpstreamFetch marks a failed fetch by the network collaborator.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
)
