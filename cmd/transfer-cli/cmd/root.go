package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// 默认指向 Sepolia 测试网, 主网操作需显式传 --rpc 和 --chain-id
const (
	defaultRpcURL  = "https://ethereum-sepolia.publicnode.com"
	defaultChainID = int64(11155111)
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "transfer-cli",
	Short: "以太坊转账命令行工具",
	Long: `一个用 Go 语言编写的以太坊原生币转账工具。
支持创建/导入账户 (加密 Keystore)、查询余额、在线一键转账,
以及 build/sign/broadcast 三段式离线签名流程。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// promptPassword 从终端读取密码 (不回显)。
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}
