// Package faults defines the error taxonomy shared by the analysis
// pipeline. Every upstream failure is classified so the HTTP layer can
// distinguish "upstream unavailable" from an internal fault without
// inspecting error strings.
package faults

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	// Internal is the default for unclassified errors.
	Internal Kind = iota
	// Config marks a missing or unusable provider credential.
	Config
	// Retrieval marks a web-search transport or HTTP failure.
	Retrieval
	// Provenance marks an image download or vision-service failure.
	Provenance
	// Synthesis marks a reasoning-model transport, parse, or contract failure.
	Synthesis
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Retrieval:
		return "retrieval"
	case Provenance:
		return "provenance"
	case Synthesis:
		return "synthesis"
	default:
		return "internal"
	}
}

type Fault struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Fault {
	return &Fault{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Fault {
	return &Fault{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, msg string) *Fault {
	return &Fault{kind: kind, msg: msg, err: err}
}

func (f *Fault) Error() string {
	if f.err != nil {
		return f.msg + ": " + f.err.Error()
	}
	return f.msg
}

func (f *Fault) Unwrap() error { return f.err }

func (f *Fault) Kind() Kind { return f.kind }

// KindOf extracts the kind from an error chain, defaulting to Internal.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.kind
	}
	return Internal
}

// IsUpstream reports whether the error represents an upstream-unavailable
// condition rather than an internal one.
func IsUpstream(err error) bool {
	return KindOf(err) != Internal
}
