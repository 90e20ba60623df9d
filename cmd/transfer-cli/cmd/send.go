package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/keystore"
	"transfer-core/pkg/rpcclient"
)

// sendCmd 代表 send 命令: 在线一键转账 (build + sign + broadcast + track)。
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "发起一笔转账 (Online, 全流程)",
	Long: `从 Keystore 账户向指定地址转账。
依次完成: 查询 nonce/余额 → 构造 → 签名 → 广播 → 等待确认 → 复核余额。`,
	Run: func(cmd *cobra.Command, args []string) {
		to, _ := cmd.Flags().GetString("to")
		amountStr, _ := cmd.Flags().GetString("amount")
		keystoreFile, _ := cmd.Flags().GetString("keystore")

		if !common.IsHexAddress(to) {
			fmt.Printf("接收地址无效: %s\n", to)
			os.Exit(1)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			fmt.Printf("金额无效: %s\n", amountStr)
			os.Exit(1)
		}
		valueWei, err := ethtx.EtherToWei(amount)
		if err != nil {
			fmt.Printf("金额无效: %v\n", err)
			os.Exit(1)
		}

		fee, chainID, gasLimit, rpcURL := feeFromFlags(cmd)

		// 1. 解锁账户
		keyJSON, err := keystore.LoadFromFile(keystoreFile)
		if err != nil {
			fmt.Printf("加载 Keystore 失败: %v\n", err)
			os.Exit(1)
		}
		password, err := promptPassword("请输入 Keystore 密码: ")
		if err != nil {
			fmt.Printf("读取密码失败: %v\n", err)
			os.Exit(1)
		}
		acct, err := keystore.DecryptKey(keyJSON, password)
		if err != nil {
			fmt.Printf("解密失败 (密码错误?): %v\n", err)
			os.Exit(1)
		}
		defer acct.Zero()
		fmt.Printf("账户已解锁: %s\n", acct.Address.Hex())

		// 2. 连接节点并构造
		client, err := rpcclient.Dial(rpcURL)
		if err != nil {
			fmt.Printf("连接 RPC 失败: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		ctx := context.Background()
		query := ethtx.NewQuery(client)
		builder := ethtx.NewBuilder(query, big.NewInt(chainID), gasLimit)
		unsigned, err := builder.Build(ctx, acct.Address, common.HexToAddress(to), valueWei, fee, gasLimit)
		if err != nil {
			fmt.Printf("构造交易失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Nonce: %d, 转账 %s ETH, Gas 上限 %d\n", unsigned.Nonce, amount.String(), unsigned.GasLimit)

		// 3. 签名 + 广播
		signed, err := ethtx.Sign(unsigned, acct.PrivateKey)
		if err != nil {
			fmt.Printf("签名失败: %v\n", err)
			os.Exit(1)
		}
		txHash, err := ethtx.NewSubmitter(client).Submit(ctx, signed)
		if err != nil {
			fmt.Printf("❌ 广播失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ 广播成功! Hash: %s\n", txHash.Hex())
		fmt.Printf("Tx URL: https://sepolia.etherscan.io/tx/%s\n", txHash.Hex())

		// 4. 等待确认
		awaitAndReport(client, txHash)

		// 5. 复核余额 (确认后再查一次, 核对扣款)
		time.Sleep(time.Second)
		balance, err := query.GetBalance(ctx, acct.Address, ethtx.TagLatest)
		if err == nil {
			fmt.Printf("当前余额: %s ETH\n", ethtx.WeiToEther(balance).String())
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().String("to", "", "接收地址")
	sendCmd.Flags().String("amount", "", "转账金额 (ETH)")
	sendCmd.Flags().StringP("keystore", "k", "wallet.json", "Keystore 文件路径")
	addChainFlags(sendCmd)
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("amount")
}
