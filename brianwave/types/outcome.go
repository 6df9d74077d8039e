// brianwave/types/outcome.go
package types

import "fmt"

// OutcomeKind classifies the result of an operation so handlers can decide
// how to respond without inspecting error strings.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeValidationFailed
	OutcomeUnauthenticated
	OutcomeForbidden
	OutcomeNotFound
	OutcomeConfigurationMissing
	OutcomeUpstreamFailure
	OutcomeConflict
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeConfigurationMissing:
		return "configuration_missing"
	case OutcomeUpstreamFailure:
		return "upstream_failure"
	case OutcomeConflict:
		return "conflict"
	}
	return "unknown"
}

// Outcome is the tagged result of an operation. Expected failures
// (validation, authorization, missing rows) travel here rather than as
// errors; Err is only set for unexpected transport or store failures.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Err     error
}

func (o Outcome) OK() bool {
	return o.Kind == OutcomeOK
}

func (o Outcome) Error() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Kind, o.Err)
	}
	if o.Message != "" {
		return fmt.Sprintf("%s: %s", o.Kind, o.Message)
	}
	return o.Kind.String()
}

func OK() Outcome {
	return Outcome{Kind: OutcomeOK}
}

func ValidationFailed(message string) Outcome {
	return Outcome{Kind: OutcomeValidationFailed, Message: message}
}

func Unauthenticated() Outcome {
	return Outcome{Kind: OutcomeUnauthenticated, Message: "not signed in"}
}

func Forbidden() Outcome {
	return Outcome{Kind: OutcomeForbidden, Message: "not the owner of this resource"}
}

func NotFound(message string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Message: message}
}

func ConfigurationMissing(message string) Outcome {
	return Outcome{Kind: OutcomeConfigurationMissing, Message: message}
}

func UpstreamFailure(message string, err error) Outcome {
	return Outcome{Kind: OutcomeUpstreamFailure, Message: message, Err: err}
}
