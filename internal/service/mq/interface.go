package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID      string // 消息ID (例如 Redis Stream ID / Kafka Key)
	Topic   string // 主题 (例如 "transfer_events_requested")
	Key     string // 分区键 (例如发送地址), 用于 Kafka Partition 排序
	Payload []byte // 消息体 (JSON)
}

// Producer 生产者接口
type Producer interface {
	// Publish 发送消息
	// key: 分区排序键。同一发送账户的转账事件用地址做 key,
	// 保证它们落在同一分区、按序消费 (nonce 顺序依赖这一点)。
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// Consumer 消费者接口
type Consumer interface {
	// Subscribe 订阅主题
	// handler: 消息处理函数，返回 error 表示处理失败 (不 ACK, 等待重投)
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error

	// Close 关闭消费者
	Close() error
}
