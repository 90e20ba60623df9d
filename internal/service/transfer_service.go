package service

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"transfer-core/internal/event"
	"transfer-core/internal/model"
	"transfer-core/pkg/errno"
	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/logger"
	"transfer-core/pkg/monitor"
)

// TransferService 是转账请求的入口: 校验 → 软预检 → 落库 + Outbox。
// 实际的 build/sign/submit/track 在 BroadcasterService 里异步进行。
type TransferService struct {
	db      *gorm.DB
	query   *ethtx.Query
	from    common.Address // 热钱包地址 (worker 持有对应私钥)
	chainID int64
	fee     ethtx.FeePolicy
	gas     uint64
}

func NewTransferService(db *gorm.DB, query *ethtx.Query, from common.Address, chainID int64, fee ethtx.FeePolicy, gasLimit uint64) *TransferService {
	if gasLimit == 0 {
		gasLimit = ethtx.GasLimitTransfer
	}
	return &TransferService{db: db, query: query, from: from, chainID: chainID, fee: fee, gas: gasLimit}
}

// CreateTransfer 接受一笔 "转 amountEther 给 to" 的请求。
// 余额预检是 advisory 的: 通过了也可能被节点拒 (余额在预检和广播之间变动),
// 这里只拦明显不可能成功的单子; 节点不可达时照常受理, 广播阶段自会处理。
func (s *TransferService) CreateTransfer(ctx context.Context, to string, amountEther decimal.Decimal) (*model.Transfer, error) {
	if !common.IsHexAddress(to) {
		return nil, errno.ErrInvalidAddress
	}

	valueWei, err := ethtx.EtherToWei(amountEther)
	if err != nil || valueWei.Sign() <= 0 {
		return nil, errno.ErrInvalidAmount
	}

	if err := s.preflight(ctx, valueWei); err != nil {
		return nil, err
	}

	transfer := &model.Transfer{
		Chain:       "ETH",
		ChainID:     s.chainID,
		FromAddress: s.from.Hex(),
		ToAddress:   common.HexToAddress(to).Hex(),
		AmountWei:   decimal.NewFromBigInt(valueWei, 0),
		GasLimit:    s.gas,
		Status:      model.TransferStatusPending,
	}

	// 转账单 + 事件同一事务 (Transactional Outbox)
	err = s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		if err := dbTx.Create(transfer).Error; err != nil {
			return err
		}
		return model.CreateOutboxMessage(dbTx, event.TopicTransferRequested, event.TransferRequestedEvent{
			TransferID:  transfer.ID,
			FromAddress: transfer.FromAddress,
			ToAddress:   transfer.ToAddress,
			AmountWei:   transfer.AmountWei.String(),
			Chain:       transfer.Chain,
		})
	})
	if err != nil {
		logger.Error("转账单落库失败", zap.Error(err))
		return nil, errno.ErrDatabase
	}

	if monitor.Business != nil {
		monitor.Business.TransferRequestedTotal.WithLabelValues(transfer.Chain).Inc()
	}

	logger.Info("受理转账请求",
		zap.Uint64("id", transfer.ID),
		zap.String("to", transfer.ToAddress),
		zap.String("amount_wei", transfer.AmountWei.String()))
	return transfer, nil
}

func (s *TransferService) preflight(ctx context.Context, valueWei *big.Int) error {
	balance, err := s.query.GetBalance(ctx, s.from, ethtx.TagLatest)
	if err != nil {
		// 节点打喷嚏不该挡住受理; 广播阶段会再对账
		logger.Warn("余额预检跳过: 节点不可达", zap.Error(err))
		return nil
	}

	maxGasCost := new(big.Int).Mul(new(big.Int).SetUint64(s.gas), s.fee.CeilingWei())
	required := new(big.Int).Add(valueWei, maxGasCost)
	if required.Cmp(balance) > 0 {
		return errno.ErrInsufficientBalance
	}
	return nil
}

// GetTransfer 查询单笔转账单。
func (s *TransferService) GetTransfer(ctx context.Context, id uint64) (*model.Transfer, error) {
	var transfer model.Transfer
	if err := s.db.WithContext(ctx).First(&transfer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrTransferNotFound
		}
		return nil, errno.ErrDatabase
	}
	return &transfer, nil
}

// ListTransfers 按状态过滤, 最新在前。status 为空返回全部。
func (s *TransferService) ListTransfers(ctx context.Context, status string, limit int) ([]model.Transfer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var transfers []model.Transfer
	if err := q.Find(&transfers).Error; err != nil {
		return nil, errno.ErrDatabase
	}
	return transfers, nil
}
