package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"transfer-core/internal/model"
	"transfer-core/internal/service/mq"
	"transfer-core/pkg/logger"
)

// RelayService 负责把本地消息表 (outbox) 的消息搬运到 MQ。
// 发送成功才置 SENT => at-least-once 投递, 消费端按转账单状态做幂等。
type RelayService struct {
	db       *gorm.DB
	producer mq.Producer
	interval time.Duration
}

func NewRelayService(db *gorm.DB, producer mq.Producer) *RelayService {
	return &RelayService{
		db:       db,
		producer: producer,
		interval: 500 * time.Millisecond,
	}
}

func (s *RelayService) Start(ctx context.Context) {
	logger.Info("启动消息中继服务 (outbox relay)")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("消息中继服务停止")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *RelayService) processPendingMessages(ctx context.Context) {
	// 每次取 50 条, 控制内存
	var messages []model.OutboxMessage
	if err := s.db.WithContext(ctx).Where("status = ?", "PENDING").Limit(50).Find(&messages).Error; err != nil {
		logger.Error("查询 outbox 失败", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}

	for _, msg := range messages {
		// 分区键用发送地址, 同一账户的事件保序
		key := partitionKey(msg.Payload)
		if err := s.producer.Publish(ctx, msg.Topic, key, msg.Payload); err != nil {
			logger.Error("投递消息失败", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}

		if err := s.db.WithContext(ctx).Model(&msg).Update("status", "SENT").Error; err != nil {
			// 状态没更新成功, 下一轮会重发; 消费端靠幂等兜底
			logger.Error("更新 outbox 状态失败", zap.Uint64("id", msg.ID), zap.Error(err))
		}
	}
}

func partitionKey(payload []byte) string {
	var probe struct {
		FromAddress string `json:"from_address"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.FromAddress
}
