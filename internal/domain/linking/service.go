// Package linking implements the account-linking workflow: a strict linear
// pipeline that exchanges a single-use public token, provisions a funding
// source with the payments processor, and persists the link record.
package linking

import (
	"context"
	"errors"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/infrastructure/aggregator"
)

var (
	linkTracer            = otel.Tracer("horizon/linking")
	linkMeter             = otel.Meter("horizon/linking")
	linkAttemptsTotal, _  = linkMeter.Int64Counter("linking.attempts.total", metric.WithDescription("Link attempts by outcome"))
	orphanedFundings, _   = linkMeter.Int64Counter("linking.orphaned_funding_sources.total", metric.WithDescription("Funding sources created remotely with no local record"))
	linkStepFailures, _   = linkMeter.Int64Counter("linking.step_failures.total", metric.WithDescription("Link step failures by step"))
)

// processorName is the processor identifier the aggregator expects when
// minting processor tokens.
const processorName = "dwolla"

// UserRef identifies the owner of a link attempt. ProcessorCustomerID is
// the user's customer reference at the payments processor.
type UserRef struct {
	UserID              string
	ProcessorCustomerID string
}

// RecordStore persists the durable link record. The store is not
// idempotent; the orchestrator calls it at most once per run.
type RecordStore interface {
	CreateLinkedAccount(ctx context.Context, params bankaccount.CreateParams) (*bankaccount.BankAccount, error)
}

// OrphanStore records funding sources that were created remotely but whose
// local record failed to persist, for manual reconciliation.
type OrphanStore interface {
	RecordOrphan(ctx context.Context, params OrphanParams) error
}

// OrphanParams describes one orphaned funding source.
type OrphanParams struct {
	UserID           string
	FundingSourceURL string
	BankID           string
	AccountID        string
	Reason           string
}

// Service orchestrates the linking pipeline. Each run is request-scoped:
// it executes to completion or to its first failure, with no background
// work and no shared state between runs.
type Service struct {
	aggregator  aggregator.ClientInterface
	provisioner *Provisioner
	store       RecordStore
	orphans     OrphanStore
	codec       *Codec

	// invalidate signals downstream consumers that cached views of the
	// user's account list are stale. Called only after a fully
	// successful run.
	invalidate func(ctx context.Context, userID string)

	// orphanHook observes the orphaned-funding-source condition, in
	// addition to the structured log and metric. May be nil.
	orphanHook func(OrphanParams)
}

// NewService creates the linking orchestrator.
func NewService(
	agg aggregator.ClientInterface,
	provisioner *Provisioner,
	store RecordStore,
	orphans OrphanStore,
	codec *Codec,
) *Service {
	return &Service{
		aggregator:  agg,
		provisioner: provisioner,
		store:       store,
		orphans:     orphans,
		codec:       codec,
	}
}

// SetInvalidator installs the stale-view invalidation hook.
func (s *Service) SetInvalidator(fn func(ctx context.Context, userID string)) {
	s.invalidate = fn
}

// SetOrphanHook installs an observer for the orphaned-funding-source
// condition.
func (s *Service) SetOrphanHook(fn func(OrphanParams)) {
	s.orphanHook = fn
}

// selectAccount picks the single target account for a link attempt.
// Policy: the first account returned by the aggregator. Isolated here so
// the policy can change without touching the pipeline.
func selectAccount(accounts []aggregator.Account) (aggregator.Account, error) {
	if len(accounts) == 0 {
		return aggregator.Account{}, ErrNoAccounts
	}
	return accounts[0], nil
}

// LinkAccount runs the pipeline for one public token and one user. The
// public token is single-use: any failure after the exchange step requires
// a fresh token from the UI flow, never a retry of the same call.
func (s *Service) LinkAccount(ctx context.Context, publicToken string, user UserRef) (*bankaccount.BankAccount, error) {
	ctx, span := linkTracer.Start(ctx, "linking.LinkAccount")
	defer span.End()

	record, err := s.linkAccount(ctx, publicToken, user)
	if err != nil {
		var linkErr *LinkError
		if errors.As(err, &linkErr) {
			span.SetAttributes(attribute.String("linking.failed_step", string(linkErr.Step)))
			linkStepFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("step", string(linkErr.Step))))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		linkAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failure")))
		return nil, err
	}

	linkAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))

	if s.invalidate != nil {
		s.invalidate(ctx, user.UserID)
	}

	return record, nil
}

func (s *Service) linkAccount(ctx context.Context, publicToken string, user UserRef) (*bankaccount.BankAccount, error) {
	// Step 1: exchange the single-use public token for a durable access
	// credential and item identifier. Nothing to roll back on failure.
	exchange, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, stepError(StepTokenExchange, ErrTokenExchange, err)
	}

	// Step 2: fetch the account list and select exactly one target.
	accounts, err := s.aggregator.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		return nil, stepError(StepAccountFetch, ErrAccountFetch, err)
	}
	account, err := selectAccount(accounts)
	if err != nil {
		return nil, stepError(StepAccountFetch, ErrAccountFetch, err)
	}

	// Step 3: mint a processor token bound to the credential and account.
	processorToken, err := s.aggregator.CreateProcessorToken(ctx, exchange.AccessToken, account.AccountID, processorName)
	if err != nil {
		return nil, stepError(StepProcessorToken, ErrProcessorToken, err)
	}

	// Step 4: authorize and register the funding source. From here on an
	// access credential and item already exist remotely with no local
	// record.
	links, err := s.provisioner.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	fundingSourceURL, err := s.provisioner.CreateFundingSource(ctx, user.ProcessorCustomerID, account.Name, processorToken, links)
	if err != nil {
		return nil, err
	}

	// Step 5: derive the shareable id and persist the record exactly once.
	record, err := s.store.CreateLinkedAccount(ctx, bankaccount.CreateParams{
		UserID:           user.UserID,
		BankID:           exchange.ItemID,
		AccountID:        account.AccountID,
		AccessToken:      exchange.AccessToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      s.codec.DeriveShareableID(account.AccountID),
		Name:             account.Name,
		Mask:             account.Mask,
	})
	if err != nil {
		s.reportOrphan(ctx, OrphanParams{
			UserID:           user.UserID,
			FundingSourceURL: fundingSourceURL,
			BankID:           exchange.ItemID,
			AccountID:        account.AccountID,
			Reason:           err.Error(),
		})
		return nil, stepError(StepPersistence, ErrPersistence, err)
	}

	return record, nil
}

// reportOrphan makes the one genuine partial-failure window observable: a
// funding source exists remotely with no local record. No automatic
// compensation is attempted; the orphan is logged, counted, recorded, and
// handed to the hook for operational follow-up.
func (s *Service) reportOrphan(ctx context.Context, params OrphanParams) {
	log.Printf("WARNING orphaned funding source: user=%s funding_source=%s item=%s account=%s reason=%s",
		params.UserID, params.FundingSourceURL, params.BankID, params.AccountID, params.Reason)

	orphanedFundings.Add(ctx, 1)

	if s.orphans != nil {
		if err := s.orphans.RecordOrphan(ctx, params); err != nil {
			log.Printf("Failed to record orphaned funding source for user %s: %v", params.UserID, err)
		}
	}

	if s.orphanHook != nil {
		s.orphanHook(params)
	}
}
