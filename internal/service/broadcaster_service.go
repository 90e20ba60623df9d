package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"transfer-core/internal/event"
	"transfer-core/internal/model"
	"transfer-core/internal/service/mq"
	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/keystore"
	"transfer-core/pkg/logger"
	"transfer-core/pkg/monitor"
	"transfer-core/pkg/utils/lock"
)

// BroadcasterService 消费转账事件并走完整条写路径:
// build → sign → submit → track。它持有热钱包私钥, 是系统中最敏感的组件。
//
// nonce 纪律: 同一发送账户的 build+submit 必须互斥 —— 并发 build 会拿到
// 相同的 pending nonce。这里用按地址的分布式锁串行化; 锁在广播完成后
// 就释放 (节点的 pending 视图此时已包含该交易), 不用等 receipt。
type BroadcasterService struct {
	db        *gorm.DB
	account   *keystore.Account
	builder   *ethtx.Builder
	submitter *ethtx.Submitter
	tracker   *ethtx.Tracker
	fee       ethtx.FeePolicy
	nonceLock lock.DistributedLock
}

func NewBroadcasterService(
	db *gorm.DB,
	account *keystore.Account,
	builder *ethtx.Builder,
	submitter *ethtx.Submitter,
	tracker *ethtx.Tracker,
	fee ethtx.FeePolicy,
	nonceLock lock.DistributedLock,
) *BroadcasterService {
	return &BroadcasterService{
		db:        db,
		account:   account,
		builder:   builder,
		submitter: submitter,
		tracker:   tracker,
		fee:       fee,
		nonceLock: nonceLock,
	}
}

// HandleTransferEvent 是 MQ 回调。返回 error ⇒ 不 ACK, 等待重投;
// 通过转账单状态检查实现幂等 (重复投递的已处理单子直接跳过)。
func (s *BroadcasterService) HandleTransferEvent(msg *mq.Message) error {
	var evt event.TransferRequestedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		// 格式坏掉的消息重投也救不回来, 记录后吞掉
		logger.Error("解析转账事件失败, 丢弃", zap.Error(err), zap.String("msg_id", msg.ID))
		return nil
	}

	ctx := context.Background()

	var transfer model.Transfer
	if err := s.db.First(&transfer, evt.TransferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("转账单不存在, 丢弃事件", zap.Uint64("id", evt.TransferID))
			return nil
		}
		return err // DB 抖动, 重投
	}

	if transfer.Status != model.TransferStatusPending {
		logger.Info("转账单已处理过, 跳过 (幂等)",
			zap.Uint64("id", transfer.ID), zap.String("status", transfer.Status))
		return nil
	}

	return s.process(ctx, &transfer)
}

func (s *BroadcasterService) process(ctx context.Context, transfer *model.Transfer) error {
	logger.Info("开始处理转账单",
		zap.Uint64("id", transfer.ID),
		zap.String("to", transfer.ToAddress),
		zap.String("amount_wei", transfer.AmountWei.String()))

	signed, err := s.buildAndSubmit(ctx, transfer)
	if err != nil {
		var rejected *ethtx.RejectedError
		if errors.As(err, &rejected) {
			// 节点拒绝是明确的终态, 不自动重试 —— 换 nonce/加价重发
			// 是运营决策 (标记后人工或上层策略处理)。
			s.markRejected(transfer, rejected)
			return nil
		}
		var insufficient *ethtx.InsufficientFundsError
		if errors.As(err, &insufficient) {
			s.markRejectedReason(transfer, string(ethtx.ReasonInsufficientFunds), insufficient.Error())
			return nil
		}
		// 网络抖动等瞬时问题: 保持 pending, 让 MQ 重投
		logger.Warn("转账处理失败, 等待重投", zap.Uint64("id", transfer.ID), zap.Error(err))
		return err
	}

	// 追踪确认
	start := time.Now()
	status, err := s.tracker.AwaitConfirmation(ctx, signed.TxHash)
	if err != nil {
		// 追踪失败不影响交易本身; 单子留在 submitted, 可以事后重新追踪
		logger.Error("确认追踪中断", zap.Uint64("id", transfer.ID), zap.Error(err))
		return nil
	}

	s.recordConfirmation(transfer, status, time.Since(start))
	return nil
}

// buildAndSubmit 在 nonce 锁内完成构造、签名和广播。
func (s *BroadcasterService) buildAndSubmit(ctx context.Context, transfer *model.Transfer) (*ethtx.SignedTransaction, error) {
	lockKey := "nonce:" + s.account.Address.Hex()
	acquired, err := s.nonceLock.Acquire(ctx, lockKey, 30*time.Second)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, errors.New("nonce lock busy")
	}
	defer func() {
		if err := s.nonceLock.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn("释放 nonce 锁失败 (等待 TTL 过期)", zap.Error(err))
		}
	}()

	unsigned, err := s.builder.Build(ctx,
		s.account.Address,
		common.HexToAddress(transfer.ToAddress),
		transfer.AmountWei.BigInt(),
		s.fee,
		transfer.GasLimit,
	)
	if err != nil {
		return nil, err
	}

	signed, err := ethtx.Sign(unsigned, s.account.PrivateKey)
	if err != nil {
		return nil, err
	}

	txHash, err := s.submitter.Submit(ctx, signed)
	if err != nil {
		return nil, err
	}

	nonce := unsigned.Nonce
	transfer.Nonce = &nonce
	transfer.TxHash = txHash.Hex()
	transfer.Status = model.TransferStatusSubmitted
	if err := s.db.Save(transfer).Error; err != nil {
		// 交易已广播, DB 没跟上 —— 宁可重复记录告警也不能丢 hash
		logger.Error("保存 submitted 状态失败", zap.Uint64("id", transfer.ID),
			zap.String("tx_hash", transfer.TxHash), zap.Error(err))
	}

	if monitor.Business != nil {
		monitor.Business.TransferSubmittedTotal.WithLabelValues(transfer.Chain).Inc()
	}
	logger.Info("交易已广播", zap.Uint64("id", transfer.ID), zap.String("tx_hash", transfer.TxHash))
	return signed, nil
}

func (s *BroadcasterService) recordConfirmation(transfer *model.Transfer, status ethtx.ConfirmationStatus, elapsed time.Duration) {
	switch status.State {
	case ethtx.StateIncluded:
		transfer.BlockNumber = status.BlockNumber
		transfer.GasUsed = status.GasUsed
		if status.EffectiveGasPriceWei != nil {
			fee := decimal.NewFromBigInt(status.EffectiveGasPriceWei, 0).
				Mul(decimal.NewFromUint64(status.GasUsed))
			transfer.FeeWei = fee
		}
		outcome := "success"
		transfer.Status = model.TransferStatusConfirmed
		if !status.Success {
			outcome = "reverted"
			transfer.Status = model.TransferStatusReverted
		}
		if monitor.Business != nil {
			monitor.Business.TransferConfirmedTotal.WithLabelValues(transfer.Chain, outcome).Inc()
			monitor.Business.ConfirmationDuration.WithLabelValues(transfer.Chain).Observe(elapsed.Seconds())
			monitor.Business.GasUsedTotal.WithLabelValues(transfer.Chain).Add(float64(status.GasUsed))
		}
		logger.Info("转账确认完成",
			zap.Uint64("id", transfer.ID),
			zap.String("status", transfer.Status),
			zap.Uint64("block", status.BlockNumber),
			zap.Uint64("gas_used", status.GasUsed))

	case ethtx.StateTimedOut:
		// 超时 ≠ 失败: 交易可能晚些被打包, hash 仍然有效,
		// 可以用同一 hash 重新追踪。
		transfer.Status = model.TransferStatusUnconfirmed
		if monitor.Business != nil {
			monitor.Business.TransferUnconfirmedTotal.WithLabelValues(transfer.Chain).Inc()
		}
		logger.Warn("确认追踪超时",
			zap.Uint64("id", transfer.ID), zap.String("tx_hash", transfer.TxHash))
	}

	if err := s.db.Save(transfer).Error; err != nil {
		logger.Error("保存确认状态失败", zap.Uint64("id", transfer.ID), zap.Error(err))
	}
}

func (s *BroadcasterService) markRejected(transfer *model.Transfer, rejected *ethtx.RejectedError) {
	s.markRejectedReason(transfer, string(rejected.Reason), rejected.Error())
}

func (s *BroadcasterService) markRejectedReason(transfer *model.Transfer, reason, detail string) {
	transfer.Status = model.TransferStatusRejected
	transfer.Reason = detail
	if err := s.db.Save(transfer).Error; err != nil {
		logger.Error("保存 rejected 状态失败", zap.Uint64("id", transfer.ID), zap.Error(err))
	}
	if monitor.Business != nil {
		monitor.Business.TransferRejectedTotal.WithLabelValues(transfer.Chain, reason).Inc()
	}
	logger.Warn("节点拒绝转账", zap.Uint64("id", transfer.ID), zap.String("reason", reason))
}
