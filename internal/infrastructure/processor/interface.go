package processor

import (
	"context"
)

// ClientInterface defines the methods required from the processor API client
type ClientInterface interface {
	CreateOnDemandAuthorization(ctx context.Context) (AuthorizationLinks, error)
	CreateFundingSource(ctx context.Context, customerID, name, processorToken string, links AuthorizationLinks) (string, error)
	CreateCustomer(ctx context.Context, customer Customer) (string, error)
	CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount TransferAmount) (string, error)
}
