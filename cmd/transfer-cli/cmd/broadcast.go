package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/rpcclient"
	"transfer-core/pkg/wallet/types"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "广播已签名的交易 (Online)",
	Long:  `读取已签名的交易文件 (Signed Tx)，并广播到区块链网络。加 --wait 会继续轮询直到交易上链或超时。`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		rpcURL, _ := cmd.Flags().GetString("rpc")
		chainID, _ := cmd.Flags().GetInt64("chain-id")
		wait, _ := cmd.Flags().GetBool("wait")

		// 1. 读取 Signed Tx
		data, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Printf("读取文件失败: %v\n", err)
			os.Exit(1)
		}

		var dto types.SignedTransaction
		if err := json.Unmarshal(data, &dto); err != nil {
			fmt.Printf("解析文件失败: %v\n", err)
			os.Exit(1)
		}

		// 2. 反序列化并校验 (同时恢复出 hash 和 sender 供确认)
		tx, err := ethtx.DecodeRawTransaction(dto.RawTx)
		if err != nil {
			fmt.Printf("交易字节无效: %v\n", err)
			os.Exit(1)
		}
		sender, err := ethtx.SenderOf(tx, big.NewInt(chainID))
		if err != nil {
			fmt.Printf("签名校验失败 (chain-id 不匹配?): %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("发送方 (从签名恢复): %s\n", sender.Hex())

		// 3. 连接节点并广播
		fmt.Printf("正在连接 RPC: %s ...\n", rpcURL)
		client, err := rpcclient.Dial(rpcURL)
		if err != nil {
			fmt.Printf("连接失败: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		fmt.Printf("正在广播交易 Hash: %s ...\n", tx.Hash().Hex())
		signed := &ethtx.SignedTransaction{TxHash: tx.Hash(), RawTx: dto.RawTx}
		txHash, err := ethtx.NewSubmitter(client).Submit(context.Background(), signed)
		if err != nil {
			fmt.Printf("❌ 广播失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ 广播成功!\n")
		fmt.Printf("Tx URL: https://sepolia.etherscan.io/tx/%s\n", txHash.Hex())

		if wait {
			awaitAndReport(client, txHash)
		}
	},
}

func init() {
	rootCmd.AddCommand(broadcastCmd)
	broadcastCmd.Flags().StringP("input", "i", "signed.json", "已签名的交易文件")
	broadcastCmd.Flags().String("rpc", defaultRpcURL, "RPC 节点地址")
	broadcastCmd.Flags().Int64("chain-id", defaultChainID, "链 ID (EIP-155)")
	broadcastCmd.Flags().Bool("wait", false, "广播后等待确认")
}
