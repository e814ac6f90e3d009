// Package ledgerpb 是 ledger.proto 的 Go 綁定。
// 訊息型別以 legacy proto API 手寫維護，欄位與 tag 以 ledger.proto 為準。
package ledgerpb

import (
	"github.com/golang/protobuf/proto"
)

type DepositRequest struct {
	AccountId string `protobuf:"bytes,1,opt,name=account_id,json=accountId" json:"account_id,omitempty"`
	Amount    string `protobuf:"bytes,2,opt,name=amount" json:"amount,omitempty"`
}

func (m *DepositRequest) Reset()         { *m = DepositRequest{} }
func (m *DepositRequest) String() string { return proto.CompactTextString(m) }
func (*DepositRequest) ProtoMessage()    {}

func (m *DepositRequest) GetAccountId() string {
	if m != nil {
		return m.AccountId
	}
	return ""
}

func (m *DepositRequest) GetAmount() string {
	if m != nil {
		return m.Amount
	}
	return ""
}

type DepositResponse struct {
	NewBalance string `protobuf:"bytes,1,opt,name=new_balance,json=newBalance" json:"new_balance,omitempty"`
}

func (m *DepositResponse) Reset()         { *m = DepositResponse{} }
func (m *DepositResponse) String() string { return proto.CompactTextString(m) }
func (*DepositResponse) ProtoMessage()    {}

func (m *DepositResponse) GetNewBalance() string {
	if m != nil {
		return m.NewBalance
	}
	return ""
}

type WithdrawRequest struct {
	AccountId string `protobuf:"bytes,1,opt,name=account_id,json=accountId" json:"account_id,omitempty"`
	Amount    string `protobuf:"bytes,2,opt,name=amount" json:"amount,omitempty"`
}

func (m *WithdrawRequest) Reset()         { *m = WithdrawRequest{} }
func (m *WithdrawRequest) String() string { return proto.CompactTextString(m) }
func (*WithdrawRequest) ProtoMessage()    {}

func (m *WithdrawRequest) GetAccountId() string {
	if m != nil {
		return m.AccountId
	}
	return ""
}

func (m *WithdrawRequest) GetAmount() string {
	if m != nil {
		return m.Amount
	}
	return ""
}

type WithdrawResponse struct {
	NewBalance string `protobuf:"bytes,1,opt,name=new_balance,json=newBalance" json:"new_balance,omitempty"`
}

func (m *WithdrawResponse) Reset()         { *m = WithdrawResponse{} }
func (m *WithdrawResponse) String() string { return proto.CompactTextString(m) }
func (*WithdrawResponse) ProtoMessage()    {}

func (m *WithdrawResponse) GetNewBalance() string {
	if m != nil {
		return m.NewBalance
	}
	return ""
}

type TransferRequest struct {
	SourceAccountId string `protobuf:"bytes,1,opt,name=source_account_id,json=sourceAccountId" json:"source_account_id,omitempty"`
	TargetAccountId string `protobuf:"bytes,2,opt,name=target_account_id,json=targetAccountId" json:"target_account_id,omitempty"`
	Amount          string `protobuf:"bytes,3,opt,name=amount" json:"amount,omitempty"`
}

func (m *TransferRequest) Reset()         { *m = TransferRequest{} }
func (m *TransferRequest) String() string { return proto.CompactTextString(m) }
func (*TransferRequest) ProtoMessage()    {}

func (m *TransferRequest) GetSourceAccountId() string {
	if m != nil {
		return m.SourceAccountId
	}
	return ""
}

func (m *TransferRequest) GetTargetAccountId() string {
	if m != nil {
		return m.TargetAccountId
	}
	return ""
}

func (m *TransferRequest) GetAmount() string {
	if m != nil {
		return m.Amount
	}
	return ""
}

type TransferResponse struct {
	NewBalance       string `protobuf:"bytes,1,opt,name=new_balance,json=newBalance" json:"new_balance,omitempty"`
	CounterpartyId   string `protobuf:"bytes,2,opt,name=counterparty_id,json=counterpartyId" json:"counterparty_id,omitempty"`
	CounterpartyName string `protobuf:"bytes,3,opt,name=counterparty_name,json=counterpartyName" json:"counterparty_name,omitempty"`
	Amount           string `protobuf:"bytes,4,opt,name=amount" json:"amount,omitempty"`
	TimestampMs      int64  `protobuf:"varint,5,opt,name=timestamp_ms,json=timestampMs" json:"timestamp_ms,omitempty"`
}

func (m *TransferResponse) Reset()         { *m = TransferResponse{} }
func (m *TransferResponse) String() string { return proto.CompactTextString(m) }
func (*TransferResponse) ProtoMessage()    {}

func (m *TransferResponse) GetNewBalance() string {
	if m != nil {
		return m.NewBalance
	}
	return ""
}

func (m *TransferResponse) GetCounterpartyId() string {
	if m != nil {
		return m.CounterpartyId
	}
	return ""
}

func (m *TransferResponse) GetCounterpartyName() string {
	if m != nil {
		return m.CounterpartyName
	}
	return ""
}

func (m *TransferResponse) GetAmount() string {
	if m != nil {
		return m.Amount
	}
	return ""
}

func (m *TransferResponse) GetTimestampMs() int64 {
	if m != nil {
		return m.TimestampMs
	}
	return 0
}

type GetBalanceRequest struct {
	AccountId string `protobuf:"bytes,1,opt,name=account_id,json=accountId" json:"account_id,omitempty"`
}

func (m *GetBalanceRequest) Reset()         { *m = GetBalanceRequest{} }
func (m *GetBalanceRequest) String() string { return proto.CompactTextString(m) }
func (*GetBalanceRequest) ProtoMessage()    {}

func (m *GetBalanceRequest) GetAccountId() string {
	if m != nil {
		return m.AccountId
	}
	return ""
}

type GetBalanceResponse struct {
	Balance string `protobuf:"bytes,1,opt,name=balance" json:"balance,omitempty"`
}

func (m *GetBalanceResponse) Reset()         { *m = GetBalanceResponse{} }
func (m *GetBalanceResponse) String() string { return proto.CompactTextString(m) }
func (*GetBalanceResponse) ProtoMessage()    {}

func (m *GetBalanceResponse) GetBalance() string {
	if m != nil {
		return m.Balance
	}
	return ""
}

type HistoryRequest struct {
	AccountId string `protobuf:"bytes,1,opt,name=account_id,json=accountId" json:"account_id,omitempty"`
	Limit     int32  `protobuf:"varint,2,opt,name=limit" json:"limit,omitempty"`
}

func (m *HistoryRequest) Reset()         { *m = HistoryRequest{} }
func (m *HistoryRequest) String() string { return proto.CompactTextString(m) }
func (*HistoryRequest) ProtoMessage()    {}

func (m *HistoryRequest) GetAccountId() string {
	if m != nil {
		return m.AccountId
	}
	return ""
}

func (m *HistoryRequest) GetLimit() int32 {
	if m != nil {
		return m.Limit
	}
	return 0
}

type HistoryResponse struct {
	Records []*TransactionRecord `protobuf:"bytes,1,rep,name=records" json:"records,omitempty"`
}

func (m *HistoryResponse) Reset()         { *m = HistoryResponse{} }
func (m *HistoryResponse) String() string { return proto.CompactTextString(m) }
func (*HistoryResponse) ProtoMessage()    {}

func (m *HistoryResponse) GetRecords() []*TransactionRecord {
	if m != nil {
		return m.Records
	}
	return nil
}

type TransactionRecord struct {
	Id           string `protobuf:"bytes,1,opt,name=id" json:"id,omitempty"`
	AccountId    string `protobuf:"bytes,2,opt,name=account_id,json=accountId" json:"account_id,omitempty"`
	Kind         string `protobuf:"bytes,3,opt,name=kind" json:"kind,omitempty"`
	Amount       string `protobuf:"bytes,4,opt,name=amount" json:"amount,omitempty"`
	Counterparty string `protobuf:"bytes,5,opt,name=counterparty" json:"counterparty,omitempty"`
	Note         string `protobuf:"bytes,6,opt,name=note" json:"note,omitempty"`
	TimestampMs  int64  `protobuf:"varint,7,opt,name=timestamp_ms,json=timestampMs" json:"timestamp_ms,omitempty"`
	Seq          uint64 `protobuf:"varint,8,opt,name=seq" json:"seq,omitempty"`
}

func (m *TransactionRecord) Reset()         { *m = TransactionRecord{} }
func (m *TransactionRecord) String() string { return proto.CompactTextString(m) }
func (*TransactionRecord) ProtoMessage()    {}

func (m *TransactionRecord) GetId() string {
	if m != nil {
		return m.Id
	}
	return ""
}

func (m *TransactionRecord) GetAccountId() string {
	if m != nil {
		return m.AccountId
	}
	return ""
}

func (m *TransactionRecord) GetKind() string {
	if m != nil {
		return m.Kind
	}
	return ""
}

func (m *TransactionRecord) GetAmount() string {
	if m != nil {
		return m.Amount
	}
	return ""
}

func (m *TransactionRecord) GetCounterparty() string {
	if m != nil {
		return m.Counterparty
	}
	return ""
}

func (m *TransactionRecord) GetNote() string {
	if m != nil {
		return m.Note
	}
	return ""
}

func (m *TransactionRecord) GetTimestampMs() int64 {
	if m != nil {
		return m.TimestampMs
	}
	return 0
}

func (m *TransactionRecord) GetSeq() uint64 {
	if m != nil {
		return m.Seq
	}
	return 0
}

func init() {
	proto.RegisterType((*DepositRequest)(nil), "ledger.DepositRequest")
	proto.RegisterType((*DepositResponse)(nil), "ledger.DepositResponse")
	proto.RegisterType((*WithdrawRequest)(nil), "ledger.WithdrawRequest")
	proto.RegisterType((*WithdrawResponse)(nil), "ledger.WithdrawResponse")
	proto.RegisterType((*TransferRequest)(nil), "ledger.TransferRequest")
	proto.RegisterType((*TransferResponse)(nil), "ledger.TransferResponse")
	proto.RegisterType((*GetBalanceRequest)(nil), "ledger.GetBalanceRequest")
	proto.RegisterType((*GetBalanceResponse)(nil), "ledger.GetBalanceResponse")
	proto.RegisterType((*HistoryRequest)(nil), "ledger.HistoryRequest")
	proto.RegisterType((*HistoryResponse)(nil), "ledger.HistoryResponse")
	proto.RegisterType((*TransactionRecord)(nil), "ledger.TransactionRecord")
}
