package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"transfer-core/internal/handler/request"
	"transfer-core/internal/handler/response"
	"transfer-core/internal/service"
	"transfer-core/pkg/errno"
)

type TransferHandler struct {
	svc *service.TransferService
}

func NewTransferHandler(svc *service.TransferService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// CreateTransfer 发起转账
// 受理即返回: 转账单落库后就响应, 广播和确认由 worker 异步推进,
// 调用方轮询 GET /v1/transfers/:id 观察状态。
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req request.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, errno.ErrInvalidAmount)
		return
	}

	transfer, err := h.svc.CreateTransfer(c.Request.Context(), req.ToAddress, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, transfer)
}

// GetTransfer 查询单笔转账单
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, errno.ErrTransferNotFound)
		return
	}

	transfer, err := h.svc.GetTransfer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, transfer)
}

// ListTransfers 列出转账单, 支持 ?status=&limit=
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	transfers, err := h.svc.ListTransfers(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"items": transfers, "count": len(transfers)})
}

// HealthCheck 健康检查
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
