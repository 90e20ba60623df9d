package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transfer 状态机 (worker 推进, 永不回退):
//
//	pending → submitted → confirmed | reverted
//	pending → rejected                      (节点拒绝广播)
//	submitted → unconfirmed                 (追踪超时; 交易之后仍可能上链,
//	                                         可拿同一 tx_hash 重新追踪)
const (
	TransferStatusPending     = "pending"
	TransferStatusSubmitted   = "submitted"
	TransferStatusConfirmed   = "confirmed"
	TransferStatusReverted    = "reverted"
	TransferStatusRejected    = "rejected"
	TransferStatusUnconfirmed = "unconfirmed"
)

// Transfer 转账单
type Transfer struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Chain       string          `gorm:"type:varchar(10);not null;default:'ETH'" json:"chain"`
	ChainID     int64           `gorm:"not null" json:"chain_id"`
	FromAddress string          `gorm:"type:varchar(64);not null;index" json:"from_address"`
	ToAddress   string          `gorm:"type:varchar(64);not null;index" json:"to_address"`
	AmountWei   decimal.Decimal `gorm:"type:decimal(32,0);not null" json:"amount_wei"`

	Nonce    *uint64 `gorm:"" json:"nonce,omitempty"` // 广播时分配
	GasLimit uint64  `gorm:"not null;default:21000" json:"gas_limit"`

	TxHash      string          `gorm:"type:varchar(80);index" json:"tx_hash,omitempty"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason      string          `gorm:"type:varchar(255)" json:"reason,omitempty"` // 节点拒绝原因等
	BlockNumber uint64          `json:"block_number,omitempty"`
	GasUsed     uint64          `json:"gas_used,omitempty"`
	FeeWei      decimal.Decimal `gorm:"type:decimal(32,0);default:0" json:"fee_wei"` // gasUsed × effectiveGasPrice

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// OutboxMessage 本地消息表 (Transactional Outbox):
// 转账单和它的事件在同一个数据库事务里落盘, relay 再搬运到 MQ,
// 保证 "单子存在 ⇔ 事件至少投递一次"。
type OutboxMessage struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic     string         `gorm:"type:varchar(255);not null" json:"topic"`
	Payload   []byte         `gorm:"type:text;not null" json:"payload"`
	Status    string         `gorm:"type:varchar(50);not null;default:'PENDING';index" json:"status"` // PENDING, SENT, FAILED
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}

// CreateOutboxMessage 在调用方的事务里插入一条待发送消息。
func CreateOutboxMessage(tx *gorm.DB, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&OutboxMessage{
		Topic:   topic,
		Payload: data,
		Status:  "PENDING",
	}).Error
}
