package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/rpcclient"
)

// balanceCmd 代表 balance 命令
var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "查询账户余额",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rpcURL, _ := cmd.Flags().GetString("rpc")

		if !common.IsHexAddress(args[0]) {
			fmt.Printf("地址无效: %s\n", args[0])
			os.Exit(1)
		}
		addr := common.HexToAddress(args[0])

		client, err := rpcclient.Dial(rpcURL)
		if err != nil {
			fmt.Printf("连接 RPC 失败: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		query := ethtx.NewQuery(client)
		balance, err := query.GetBalance(context.Background(), addr, ethtx.TagLatest)
		if err != nil {
			fmt.Printf("查询余额失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("地址:   %s\n", addr.Hex())
		fmt.Printf("余额:   %s wei\n", balance.String())
		fmt.Printf("        %s ETH\n", ethtx.WeiToEther(balance).String())
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().String("rpc", defaultRpcURL, "RPC 节点地址")
}
