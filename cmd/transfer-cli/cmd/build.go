package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/keystore"
	"transfer-core/pkg/rpcclient"
	"transfer-core/pkg/wallet/types"
)

// buildCmd 代表 build 命令 (在线端, 不需要私钥)
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "构造未签名交易 (Online)",
	Long: `在线查询 nonce 和余额，构造一笔未签名的转账交易并保存为 JSON 文件。
文件可以拷贝到离线机器上用 sign 命令签名。此步骤不接触私钥。`,
	Run: func(cmd *cobra.Command, args []string) {
		to, _ := cmd.Flags().GetString("to")
		amountStr, _ := cmd.Flags().GetString("amount")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		fromStr, _ := cmd.Flags().GetString("from")
		output, _ := cmd.Flags().GetString("output")

		// From 地址: 显式 --from 或从 Keystore 文件读 (不需要密码)
		if fromStr == "" {
			keyJSON, err := keystore.LoadFromFile(keystoreFile)
			if err != nil {
				fmt.Printf("读取 Keystore 失败 (或改用 --from 指定地址): %v\n", err)
				os.Exit(1)
			}
			fromStr = keyJSON.Address
		}
		if !common.IsHexAddress(fromStr) || !common.IsHexAddress(to) {
			fmt.Println("发送或接收地址无效")
			os.Exit(1)
		}
		from := common.HexToAddress(fromStr)

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

		client, err := rpcclient.Dial(rpcURL)
		if err != nil {
			fmt.Printf("连接 RPC 失败: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()

		builder := ethtx.NewBuilder(ethtx.NewQuery(client), big.NewInt(chainID), gasLimit)
		unsigned, err := builder.Build(context.Background(), from, common.HexToAddress(to), valueWei, fee, gasLimit)
		if err != nil {
			fmt.Printf("构造交易失败: %v\n", err)
			os.Exit(1)
		}

		dto := types.UnsignedTransaction{
			Chain:    "ETH",
			From:     from.Hex(),
			To:       unsigned.To.Hex(),
			ValueWei: unsigned.ValueWei.String(),
			Nonce:    unsigned.Nonce,
			GasLimit: unsigned.GasLimit,
			ChainID:  chainID,
		}
		switch f := unsigned.Fee.(type) {
		case ethtx.LegacyFee:
			dto.GasPriceWei = f.GasPriceWei.String()
		case ethtx.DynamicFee:
			dto.MaxFeeWei = f.MaxFeeWei.String()
			dto.MaxPriorityFeeWei = f.MaxPriorityFeeWei.String()
		}

		data, _ := json.MarshalIndent(dto, "", "  ")
		if err := os.WriteFile(output, data, 0644); err != nil {
			fmt.Printf("保存文件失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ 未签名交易已保存到: %s\n", output)
		fmt.Printf("Nonce: %d, GasLimit: %d\n", unsigned.Nonce, unsigned.GasLimit)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("to", "", "接收地址")
	buildCmd.Flags().String("amount", "", "转账金额 (ETH)")
	buildCmd.Flags().StringP("keystore", "k", "wallet.json", "Keystore 文件路径 (只读地址)")
	buildCmd.Flags().String("from", "", "发送地址 (代替 Keystore)")
	buildCmd.Flags().StringP("output", "o", "unsigned.json", "输出文件路径")
	addChainFlags(buildCmd)
	_ = buildCmd.MarkFlagRequired("to")
	_ = buildCmd.MarkFlagRequired("amount")
}

// addChainFlags 注册链与手续费相关的公共标志。
func addChainFlags(c *cobra.Command) {
	c.Flags().String("rpc", defaultRpcURL, "RPC 节点地址")
	c.Flags().Int64("chain-id", defaultChainID, "链 ID (EIP-155)")
	c.Flags().Uint64("gas-limit", ethtx.GasLimitTransfer, "Gas 上限")
	c.Flags().String("fee-mode", "legacy", "手续费模型: legacy 或 dynamic")
	c.Flags().Int64("gas-price-gwei", 100, "Gas 单价 (gwei, legacy 模式)")
	c.Flags().Int64("max-fee-gwei", 0, "每单位 Gas 最高费用 (gwei, dynamic 模式)")
	c.Flags().Int64("max-priority-fee-gwei", 0, "矿工小费上限 (gwei, dynamic 模式)")
}

// feeFromFlags 从公共标志解析手续费策略, 解析失败直接退出。
func feeFromFlags(cmd *cobra.Command) (ethtx.FeePolicy, int64, uint64, string) {
	rpcURL, _ := cmd.Flags().GetString("rpc")
	chainID, _ := cmd.Flags().GetInt64("chain-id")
	gasLimit, _ := cmd.Flags().GetUint64("gas-limit")
	feeMode, _ := cmd.Flags().GetString("fee-mode")
	gasPriceGwei, _ := cmd.Flags().GetInt64("gas-price-gwei")
	maxFeeGwei, _ := cmd.Flags().GetInt64("max-fee-gwei")
	maxPriorityFeeGwei, _ := cmd.Flags().GetInt64("max-priority-fee-gwei")

	fee, err := ethtx.FeePolicyFromGwei(feeMode, gasPriceGwei, maxFeeGwei, maxPriorityFeeGwei)
	if err != nil {
		fmt.Printf("手续费配置无效: %v\n", err)
		os.Exit(1)
	}
	return fee, chainID, gasLimit, rpcURL
}
