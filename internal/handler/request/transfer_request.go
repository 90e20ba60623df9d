package request

// CreateTransferRequest 发起转账
type CreateTransferRequest struct {
	ToAddress string `json:"to_address" binding:"required"`
	// Amount 以 ether 为单位的十进制字符串, 例如 "0.01"
	Amount string `json:"amount" binding:"required"`
}
