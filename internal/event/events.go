package event

// TopicTransferRequested 是 outbox → MQ → broadcaster 的主题。
const TopicTransferRequested = "transfer_events_requested"

// TransferRequestedEvent 由 API 入库时写入 outbox, broadcaster 消费。
// 金额冗余携带仅供日志; broadcaster 以 DB 行为准重新读取。
type TransferRequestedEvent struct {
	TransferID  uint64 `json:"transfer_id"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	AmountWei   string `json:"amount_wei"`
	Chain       string `json:"chain"`
}
