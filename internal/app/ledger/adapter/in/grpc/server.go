package grpc

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
	"github.com/averho/go-bank-ledger/internal/app/ledger/usecase"
	pb "github.com/averho/go-bank-ledger/proto"
)

// Server 是帳本引擎的 gRPC 入站 Adapter。
// 呼叫端的身分驗證在上游完成，這裡只負責轉換請求與錯誤碼。
type Server struct {
	pb.UnimplementedLedgerServiceServer
	engine *usecase.Engine
}

func NewServer(engine *usecase.Engine) *Server {
	return &Server{engine: engine}
}

func (s *Server) Deposit(ctx context.Context, req *pb.DepositRequest) (*pb.DepositResponse, error) {
	amount, err := domain.ParseAmount(req.GetAmount())
	if err != nil {
		return nil, toStatus(err)
	}
	newBalance, err := s.engine.Deposit(ctx, req.GetAccountId(), amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.DepositResponse{NewBalance: newBalance.StringFixed(domain.AmountScale)}, nil
}

func (s *Server) Withdraw(ctx context.Context, req *pb.WithdrawRequest) (*pb.WithdrawResponse, error) {
	amount, err := domain.ParseAmount(req.GetAmount())
	if err != nil {
		return nil, toStatus(err)
	}
	newBalance, err := s.engine.Withdraw(ctx, req.GetAccountId(), amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.WithdrawResponse{NewBalance: newBalance.StringFixed(domain.AmountScale)}, nil
}

func (s *Server) Transfer(ctx context.Context, req *pb.TransferRequest) (*pb.TransferResponse, error) {
	amount, err := domain.ParseAmount(req.GetAmount())
	if err != nil {
		return nil, toStatus(err)
	}
	receipt, err := s.engine.Transfer(ctx, req.GetSourceAccountId(), req.GetTargetAccountId(), amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.TransferResponse{
		NewBalance:       receipt.NewBalance.StringFixed(domain.AmountScale),
		CounterpartyId:   receipt.CounterpartyID,
		CounterpartyName: receipt.CounterpartyName,
		Amount:           receipt.Amount.String(),
		TimestampMs:      receipt.Timestamp.UnixMilli(),
	}, nil
}

func (s *Server) GetBalance(ctx context.Context, req *pb.GetBalanceRequest) (*pb.GetBalanceResponse, error) {
	balance, err := s.engine.Balance(ctx, req.GetAccountId())
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.GetBalanceResponse{Balance: balance.StringFixed(domain.AmountScale)}, nil
}

func (s *Server) History(ctx context.Context, req *pb.HistoryRequest) (*pb.HistoryResponse, error) {
	records, err := s.engine.History(ctx, req.GetAccountId(), int(req.GetLimit()))
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]*pb.TransactionRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		out = append(out, &pb.TransactionRecord{
			Id:           rec.ID.String(),
			AccountId:    rec.AccountID,
			Kind:         rec.Kind.String(),
			Amount:       rec.Amount.StringFixed(domain.AmountScale),
			Counterparty: rec.Counterparty,
			Note:         rec.Note,
			TimestampMs:  rec.Timestamp.UnixMilli(),
			Seq:          rec.Seq,
		})
	}
	return &pb.HistoryResponse{Records: out}, nil
}

// toStatus 把 domain 錯誤翻成 gRPC status。
// 驗證類 -> InvalidArgument；找不到帳戶 -> NotFound；餘額不足 -> FailedPrecondition；
// Inconsistency 屬於致命類，大聲記 log 後回 Internal。
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrInvalidDenomination),
		errors.Is(err, domain.ErrSelfTransfer):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrInconsistency):
		log.Printf("LEDGER INCONSISTENCY: %v", err)
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
