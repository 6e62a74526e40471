package linking

import (
	"context"

	"horizon/internal/infrastructure/processor"
)

// Provisioner obtains authorization and registers funding sources with the
// payments processor. It performs no retries: a failed call leaves the
// remote state unknown and the caller must not blindly re-invoke it.
type Provisioner struct {
	processor processor.ClientInterface
}

// NewProvisioner creates a new funding source provisioner
func NewProvisioner(client processor.ClientInterface) *Provisioner {
	return &Provisioner{processor: client}
}

// Authorize requests a fresh one-time authorization handle from the
// processor. A rejection or timeout is terminal for the current attempt;
// retry policy, if any, belongs to the caller.
func (p *Provisioner) Authorize(ctx context.Context) (processor.AuthorizationLinks, error) {
	links, err := p.processor.CreateOnDemandAuthorization(ctx)
	if err != nil {
		return nil, stepError(StepAuthorization, ErrUpstreamAuthorization, err)
	}
	return links, nil
}

// CreateFundingSource registers the funding source and returns its
// canonical URL. Exactly one remote resource is created per successful
// call.
func (p *Provisioner) CreateFundingSource(ctx context.Context, customerID, name, processorToken string, links processor.AuthorizationLinks) (string, error) {
	fundingSourceURL, err := p.processor.CreateFundingSource(ctx, customerID, name, processorToken, links)
	if err != nil {
		return "", stepError(StepFundingSource, ErrUpstreamProvisioning, err)
	}
	return fundingSourceURL, nil
}
