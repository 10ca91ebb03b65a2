package emv

import "fmt"

// MalformedIadError reports an IAD that fails the scheme specific format checks.
type MalformedIadError struct {
	Scheme PaymentScheme
	Value  string
	Reason string
}

func (e *MalformedIadError) Error() string {
	return fmt.Sprintf("malformed %s IAD %q: %s", e.Scheme, e.Value, e.Reason)
}

// UnsupportedSchemeError reports a payment scheme without an implemented parser or derivation.
type UnsupportedSchemeError struct {
	Scheme PaymentScheme
	Pan    string // masked
}

func (e *UnsupportedSchemeError) Error() string {
	if e.Pan == "" {
		return fmt.Sprintf("unsupported payment scheme %s", e.Scheme)
	}

	return fmt.Sprintf("unsupported payment scheme %s for PAN %s", e.Scheme, e.Pan)
}

// UnsupportedCvnError reports a CVN that is unknown or not implemented for a scheme.
type UnsupportedCvnError struct {
	Scheme PaymentScheme
	Cvn    string
	Reason string
}

func (e *UnsupportedCvnError) Error() string {
	msg := fmt.Sprintf("unsupported %s CVN %q", e.Scheme, e.Cvn)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}
