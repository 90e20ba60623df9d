package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/keystore"
	"transfer-core/pkg/wallet/types"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "离线签名交易 (Offline Signing)",
	Long:  `读取未签名的交易 JSON 文件，使用 Keystore 进行签名，并输出已签名的交易 (Raw Tx)。此步骤不需要网络。`,
	Run: func(cmd *cobra.Command, args []string) {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")
		keystoreFile, _ := cmd.Flags().GetString("keystore")

		// 1. 读取未签名交易
		data, err := os.ReadFile(inputFile)
		if err != nil {
			fmt.Printf("读取输入文件失败: %v\n", err)
			os.Exit(1)
		}

		var dto types.UnsignedTransaction
		if err := json.Unmarshal(data, &dto); err != nil {
			fmt.Printf("解析交易文件失败: %v\n", err)
			os.Exit(1)
		}

		// 显示交易详情供用户确认 (Verify on Screen)
		fmt.Println("\n================ 待签名交易 ================")
		fmt.Printf("Chain:      %s (ID: %d)\n", dto.Chain, dto.ChainID)
		fmt.Printf("From:       %s\n", dto.From)
		fmt.Printf("To:         %s\n", dto.To)
		fmt.Printf("Value:      %s wei\n", dto.ValueWei)
		fmt.Printf("Nonce:      %d\n", dto.Nonce)
		fmt.Printf("GasLimit:   %d\n", dto.GasLimit)
		if dto.GasPriceWei != "" {
			fmt.Printf("GasPrice:   %s wei\n", dto.GasPriceWei)
		} else {
			fmt.Printf("MaxFee:     %s wei (tip %s)\n", dto.MaxFeeWei, dto.MaxPriorityFeeWei)
		}
		fmt.Println("============================================")

		unsigned, err := fromDTO(&dto)
		if err != nil {
			fmt.Printf("交易文件内容无效: %v\n", err)
			os.Exit(1)
		}

		// 2. 加载 Keystore
		fmt.Printf("\n正在从 %s 加载 Keystore...\n", keystoreFile)
		keyJSON, err := keystore.LoadFromFile(keystoreFile)
		if err != nil {
			fmt.Printf("加载 Keystore 失败: %v\n", err)
			os.Exit(1)
		}

		// 3. 输入密码并解密
		password, err := promptPassword("请输入 Keystore 密码以确认签名: ")
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

		// From 必须就是这把钥匙的地址, 防止签错单子
		if !strings.EqualFold(acct.Address.Hex(), dto.From) {
			fmt.Printf("Keystore 地址 %s 与交易 From %s 不一致\n", acct.Address.Hex(), dto.From)
			os.Exit(1)
		}

		// 4. 签名
		signed, err := ethtx.Sign(unsigned, acct.PrivateKey)
		if err != nil {
			fmt.Printf("签名失败: %v\n", err)
			os.Exit(1)
		}

		// 5. 输出结果
		signedDTO := types.SignedTransaction{
			TxHash: signed.TxHash.Hex(),
			RawTx:  signed.RawTx,
		}
		outputData, _ := json.MarshalIndent(signedDTO, "", "  ")
		if err := os.WriteFile(outputFile, outputData, 0644); err != nil {
			fmt.Printf("保存结果失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 签名成功!\n")
		fmt.Printf("TxHash: %s\n", signed.TxHash.Hex())
		fmt.Printf("已保存到: %s\n", outputFile)
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringP("input", "i", "unsigned.json", "未签名的交易文件路径")
	signCmd.Flags().StringP("output", "o", "signed.json", "签名后的输出文件路径")
	signCmd.Flags().StringP("keystore", "k", "wallet.json", "Keystore 文件路径")
}

// fromDTO 把文件格式还原成签名器的输入。
func fromDTO(dto *types.UnsignedTransaction) (*ethtx.UnsignedTransaction, error) {
	if dto.Chain != "ETH" {
		return nil, fmt.Errorf("不支持的链: %s", dto.Chain)
	}
	if !common.IsHexAddress(dto.To) {
		return nil, fmt.Errorf("接收地址无效: %s", dto.To)
	}
	valueWei, ok := new(big.Int).SetString(dto.ValueWei, 10)
	if !ok {
		return nil, fmt.Errorf("金额无效: %s", dto.ValueWei)
	}

	fee, err := ethtx.ParseFeePolicy(
		parseWeiField(dto.GasPriceWei),
		parseWeiField(dto.MaxFeeWei),
		parseWeiField(dto.MaxPriorityFeeWei),
	)
	if err != nil {
		return nil, err
	}

	return &ethtx.UnsignedTransaction{
		Nonce:    dto.Nonce,
		To:       common.HexToAddress(dto.To),
		ValueWei: valueWei,
		GasLimit: dto.GasLimit,
		Fee:      fee,
		ChainID:  big.NewInt(dto.ChainID),
	}, nil
}

func parseWeiField(s string) *big.Int {
	if s == "" {
		return nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return v
}
