package linking

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Step names the stages of the linking pipeline, in execution order.
type Step string

const (
	StepTokenExchange  Step = "token_exchange"
	StepAccountFetch   Step = "account_fetch"
	StepProcessorToken Step = "processor_token"
	StepAuthorization  Step = "authorization"
	StepFundingSource  Step = "funding_source"
	StepPersistence    Step = "persistence"
)

// Kind sentinels for the pipeline failure taxonomy. Callers match them
// with errors.Is.
var (
	ErrTokenExchange         = errors.New("public token exchange failed")
	ErrAccountFetch          = errors.New("account fetch failed")
	ErrProcessorToken        = errors.New("processor token issuance failed")
	ErrUpstreamAuthorization = errors.New("processor authorization failed")
	ErrUpstreamProvisioning  = errors.New("funding source provisioning failed")
	ErrPersistence           = errors.New("linked account persistence failed")
	ErrNoAccounts            = errors.New("no accounts returned for access token")
	ErrMalformedResourceURL  = errors.New("resource url has no extractable identifier")
)

// LinkError is the single terminal error surfaced by the orchestrator.
// It identifies the failed step and carries the upstream cause, so callers
// know the last completed step without parsing messages.
type LinkError struct {
	Step  Step
	Kind  error
	Cause error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("linking %s: %s: %v", e.Step, e.Kind, e.Cause)
}

// Is makes errors.Is(err, ErrTokenExchange) and friends work against the
// kind sentinel.
func (e *LinkError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func (e *LinkError) Unwrap() error {
	return e.Cause
}

func stepError(step Step, kind, cause error) *LinkError {
	return &LinkError{Step: step, Kind: kind, Cause: cause}
}

// IsTimeout reports whether a pipeline failure was caused by a deadline or
// network timeout rather than an upstream rejection.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
