package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/rpcclient"
)

// trackCmd 代表 track 命令: 对已有 hash 重新追踪确认。
// 典型用途: send/broadcast 超时后拿同一 hash 继续等。
var trackCmd = &cobra.Command{
	Use:   "track <tx-hash>",
	Short: "追踪交易确认状态",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rpcURL, _ := cmd.Flags().GetString("rpc")

		hashHex := args[0]
		if len(hashHex) != 66 || hashHex[:2] != "0x" {
			fmt.Printf("交易 Hash 无效: %s\n", hashHex)
			os.Exit(1)
		}

		client, err := rpcclient.Dial(rpcURL)
		if err != nil {
			fmt.Printf("连接 RPC 失败: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		awaitAndReport(client, common.HexToHash(hashHex))
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().String("rpc", defaultRpcURL, "RPC 节点地址")
}

// awaitAndReport 轮询确认并打印结果, 被 track / broadcast --wait / send 共用。
func awaitAndReport(client *rpcclient.Client, txHash common.Hash) {
	fmt.Printf("正在等待确认 (轮询中, Ctrl-C 退出): %s\n", txHash.Hex())

	tracker := ethtx.NewTracker(client, 3*time.Second, 3*time.Minute)
	status, err := tracker.AwaitConfirmation(context.Background(), txHash)
	if err != nil {
		fmt.Printf("追踪中断: %v\n", err)
		os.Exit(1)
	}

	switch status.State {
	case ethtx.StateIncluded:
		if status.Success {
			fmt.Printf("✅ 交易已确认! 区块: %d, GasUsed: %d\n", status.BlockNumber, status.GasUsed)
		} else {
			fmt.Printf("⚠️  交易已上链但执行失败 (reverted)。区块: %d\n", status.BlockNumber)
		}
		if status.EffectiveGasPriceWei != nil {
			fmt.Printf("实际 Gas 单价: %s wei\n", status.EffectiveGasPriceWei.String())
		}
	case ethtx.StateTimedOut:
		fmt.Println("⏰ 等待超时。交易仍可能稍后上链, 可以用 track 命令继续追踪。")
	}
}
