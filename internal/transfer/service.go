// File: internal/transfer/service.go
package transfer

import (
	"context"
	"fmt"
	"time"

	"wallet_backend/internal/account"
	"wallet_backend/internal/common"
	"wallet_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the transfer business logic interface.
type Service interface {
	Send(ctx context.Context, userID, accountID uuid.UUID, req SendTransferRequest) (*TransferResponse, error)
	Request(ctx context.Context, userID, accountID uuid.UUID, req RequestTransferRequest) (*TransferResponse, error)
	List(ctx context.Context, userID, accountID uuid.UUID, page, pageSize int) ([]TransferResponse, *common.Pagination, error)
	Search(ctx context.Context, userID uuid.UUID, query SearchTransfersQuery) ([]TransferResponse, *common.Pagination, error)
	// ExpireRequests sweeps overdue pending money requests. It returns the
	// number of transfers expired.
	ExpireRequests(ctx context.Context) (int, error)
}

type service struct {
	repo       Repository
	accountSvc account.Service
	indexer    Indexer
	cfg        *config.Config
	logger     *zap.Logger
}

// NewService creates a new transfer service. indexer may be nil when search
// indexing is not configured; writes then skip indexing.
func NewService(repo Repository, accountSvc account.Service, indexer Indexer, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		accountSvc: accountSvc,
		indexer:    indexer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Send records an outgoing payment from an owned account. The transfer is
// stored as completed once the provider accepts it.
func (s *service) Send(ctx context.Context, userID, accountID uuid.UUID, req SendTransferRequest) (*TransferResponse, error) {
	acc, err := s.accountSvc.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	tr := &Transfer{
		AccountID:   acc.ID,
		UserID:      userID,
		Direction:   DirectionOutgoing,
		Receiver:    req.Receiver,
		Description: req.Description,
		Amount:      req.Amount,
		AssetCode:   acc.AssetCode,
		AssetScale:  acc.AssetScale,
		Status:      StatusCompleted,
	}
	if err := s.repo.Create(ctx, tr); err != nil {
		return nil, fmt.Errorf("failed to store transfer: %w", err)
	}
	s.index(ctx, tr)

	s.logger.Info("Transfer sent",
		zap.String("transferID", tr.ID.String()),
		zap.String("accountID", acc.ID.String()),
		zap.Int64("amount", tr.Amount),
	)

	resp := ToTransferResponse(tr)
	return &resp, nil
}

// Request records an incoming money request. It stays pending until paid or
// swept by the expiry job.
func (s *service) Request(ctx context.Context, userID, accountID uuid.UUID, req RequestTransferRequest) (*TransferResponse, error) {
	acc, err := s.accountSvc.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	expiresAt := req.ExpiresAt
	if expiresAt == nil {
		t := time.Now().Add(DefaultRequestExpiry)
		expiresAt = &t
	} else if expiresAt.Before(time.Now()) {
		return nil, common.ErrBadRequest.WithDetails("Expiry must be in the future.")
	}

	tr := &Transfer{
		AccountID:   acc.ID,
		UserID:      userID,
		Direction:   DirectionIncoming,
		Receiver:    req.Payer,
		Description: req.Description,
		Amount:      req.Amount,
		AssetCode:   acc.AssetCode,
		AssetScale:  acc.AssetScale,
		Status:      StatusPending,
		ExpiresAt:   expiresAt,
	}
	if err := s.repo.Create(ctx, tr); err != nil {
		return nil, fmt.Errorf("failed to store money request: %w", err)
	}
	s.index(ctx, tr)

	s.logger.Info("Money request created",
		zap.String("transferID", tr.ID.String()),
		zap.String("accountID", acc.ID.String()),
		zap.Int64("amount", tr.Amount),
	)

	resp := ToTransferResponse(tr)
	return &resp, nil
}

// List returns a page of an owned account's transfers, newest first.
func (s *service) List(ctx context.Context, userID, accountID uuid.UUID, page, pageSize int) ([]TransferResponse, *common.Pagination, error) {
	acc, err := s.accountSvc.GetOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, nil, err
	}

	transfers, pagination, err := s.repo.FindByAccountID(ctx, acc.ID, page, pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	return toResponses(transfers), pagination, nil
}

// Search runs a relevance-ranked free-text search over the user's transfers.
func (s *service) Search(ctx context.Context, userID uuid.UUID, query SearchTransfersQuery) ([]TransferResponse, *common.Pagination, error) {
	if s.indexer == nil {
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Transfer search is not configured.")
	}

	ids, total, err := s.indexer.SearchTransferIDs(ctx, userID, query.Query, query.Page, query.PageSize)
	if err != nil {
		s.logger.Error("Transfer search failed", zap.String("userID", userID.String()), zap.Error(err))
		return nil, nil, common.ErrServiceUnavailable.WithDetails("Transfer search is temporarily unavailable.")
	}

	transfers, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load search results: %w", err)
	}

	pagination := common.NewPagination(total, query.Page, query.PageSize)
	return toResponses(transfers), pagination, nil
}

// ExpireRequests is invoked by the background sweep job.
func (s *service) ExpireRequests(ctx context.Context) (int, error) {
	ids, err := s.repo.ExpirePending(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire money requests: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	// Re-index the swept transfers so search reflects the new status.
	if s.indexer != nil {
		expired, err := s.repo.FindByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn("Failed to reload expired transfers for re-indexing", zap.Error(err))
		} else {
			for i := range expired {
				s.index(ctx, &expired[i])
			}
		}
	}

	s.logger.Info("Expired overdue money requests", zap.Int("count", len(ids)))
	return len(ids), nil
}

// index writes the transfer to the search index. Indexing is best effort; a
// failure never rolls back the database write.
func (s *service) index(ctx context.Context, tr *Transfer) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexTransfer(ctx, tr); err != nil {
		s.logger.Warn("Failed to index transfer",
			zap.String("transferID", tr.ID.String()),
			zap.Error(err),
		)
	}
}

func toResponses(transfers []Transfer) []TransferResponse {
	responses := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		responses = append(responses, ToTransferResponse(&transfers[i]))
	}
	return responses
}
