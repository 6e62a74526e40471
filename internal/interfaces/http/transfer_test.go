package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/domain/transfer"
	"horizon/internal/infrastructure/processor"
)

// MockTransferRepo implements transfer.Repository for testing
type MockTransferRepo struct {
	CreateFunc       func(ctx context.Context, params transfer.CreateParams) (*transfer.Transfer, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*transfer.Transfer, error)
}

func (m *MockTransferRepo) Create(ctx context.Context, params transfer.CreateParams) (*transfer.Transfer, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &transfer.Transfer{
		ID:       params.ID,
		SenderID: params.SenderID,
		Amount:   params.Amount,
		Currency: params.Currency,
		Note:     params.Note,
	}, nil
}

func (m *MockTransferRepo) ListByUserID(ctx context.Context, userID string) ([]*transfer.Transfer, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type transferProcessor struct {
	MockProcessor
	CreateTransferFunc func(ctx context.Context, sourceURL, destinationURL string, amount processor.TransferAmount) (string, error)
}

func (m *transferProcessor) CreateTransfer(ctx context.Context, sourceURL, destinationURL string, amount processor.TransferAmount) (string, error) {
	if m.CreateTransferFunc != nil {
		return m.CreateTransferFunc(ctx, sourceURL, destinationURL, amount)
	}
	return "https://api.example.com/transfers/xfer-1", nil
}

func transferAccountRepo() *MockBankAccountRepo {
	return &MockBankAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*bankaccount.BankAccount, error) {
			if id == "ba-1" {
				return &bankaccount.BankAccount{
					ID: "ba-1", UserID: "user-1",
					FundingSourceURL: "https://api.example.com/funding-sources/fs-1",
				}, nil
			}
			return nil, bankaccount.ErrNotFound
		},
		GetByShareableIDFunc: func(ctx context.Context, shareableID string) (*bankaccount.BankAccount, error) {
			if shareableID == "share-2" {
				return &bankaccount.BankAccount{
					ID: "ba-2", UserID: "user-2",
					FundingSourceURL: "https://api.example.com/funding-sources/fs-2",
				}, nil
			}
			return nil, bankaccount.ErrNotFound
		},
	}
}

func newTransferHandler(repo *MockTransferRepo) *TransferHandler {
	accounts := bankaccount.NewService(transferAccountRepo())
	service := transfer.NewService(&transferProcessor{}, accounts, repo)
	return NewTransferHandler(service)
}

func TestHandleSend_Success(t *testing.T) {
	handler := newTransferHandler(&MockTransferRepo{})

	body := `{"senderAccountId":"ba-1","receiverShareableId":"share-2","amount":"12.34","note":"lunch"}`
	req := authenticatedRequest(http.MethodPost, "/api/transfers", body)
	rr := httptest.NewRecorder()
	handler.HandleSend(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "12.34") {
		t.Errorf("expected amount in response, got %s", rr.Body.String())
	}
}

func TestHandleSend_InvalidAmount(t *testing.T) {
	handler := newTransferHandler(&MockTransferRepo{})

	for _, amount := range []string{`"abc"`, `"-5"`, `"0"`} {
		body := `{"senderAccountId":"ba-1","receiverShareableId":"share-2","amount":` + amount + `}`
		req := authenticatedRequest(http.MethodPost, "/api/transfers", body)
		rr := httptest.NewRecorder()
		handler.HandleSend(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("amount %s: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestHandleSend_UnknownDestination(t *testing.T) {
	handler := newTransferHandler(&MockTransferRepo{})

	body := `{"senderAccountId":"ba-1","receiverShareableId":"share-nobody","amount":"10.00"}`
	req := authenticatedRequest(http.MethodPost, "/api/transfers", body)
	rr := httptest.NewRecorder()
	handler.HandleSend(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	repo := &MockTransferRepo{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*transfer.Transfer, error) {
			return []*transfer.Transfer{{ID: "t-1", SenderID: userID, Note: "rent"}}, nil
		},
	}
	handler := newTransferHandler(repo)

	req := authenticatedRequest(http.MethodGet, "/api/transfers", "")
	rr := httptest.NewRecorder()
	handler.HandleHistory(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "rent") {
		t.Errorf("expected transfer in response, got %s", rr.Body.String())
	}
}

func TestHandleHistory_EmptyIsArray(t *testing.T) {
	handler := newTransferHandler(&MockTransferRepo{})

	req := authenticatedRequest(http.MethodGet, "/api/transfers", "")
	rr := httptest.NewRecorder()
	handler.HandleHistory(rr, req)

	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
}
