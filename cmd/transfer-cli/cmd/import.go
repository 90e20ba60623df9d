package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"transfer-core/pkg/hdkey"
	"transfer-core/pkg/keystore"
)

// importCmd 代表 import 命令
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "导入已有账户",
	Long: `从私钥 Hex 或 BIP-39 助记词导入账户，加密保存为 Keystore 文件。
私钥/助记词通过交互输入，不走命令行参数 (避免留在 shell history 里)。`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		fromMnemonic, _ := cmd.Flags().GetBool("mnemonic")
		path, _ := cmd.Flags().GetString("path")

		var acct *keystore.Account

		if fromMnemonic {
			fmt.Print("请输入助记词: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Printf("读取助记词失败: %v\n", err)
				os.Exit(1)
			}
			wallet, err := hdkey.NewFromMnemonic(strings.TrimSpace(line), "")
			if err != nil {
				fmt.Printf("助记词无效: %v\n", err)
				os.Exit(1)
			}
			acct, err = wallet.DeriveAccount(path)
			if err != nil {
				fmt.Printf("派生账户失败: %v\n", err)
				os.Exit(1)
			}
		} else {
			rawHex, err := promptPassword("请输入私钥 (Hex): ")
			if err != nil {
				fmt.Printf("读取私钥失败: %v\n", err)
				os.Exit(1)
			}
			acct, err = keystore.Import(strings.TrimSpace(rawHex))
			if err != nil {
				fmt.Printf("私钥无效: %v\n", err)
				os.Exit(1)
			}
		}

		password, err := promptPassword("请设置 Keystore 密码: ")
		if err != nil {
			fmt.Printf("读取密码失败: %v\n", err)
			os.Exit(1)
		}

		keyJSON, err := keystore.EncryptKey(acct, password)
		if err != nil {
			fmt.Printf("加密失败: %v\n", err)
			os.Exit(1)
		}
		if err := keyJSON.SaveToFile(output); err != nil {
			fmt.Printf("保存 Keystore 失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n✅ 账户导入成功!\n")
		fmt.Printf("地址 (Address): %s\n", acct.Address.Hex())
		fmt.Printf("Keystore 已保存到: %s\n", output)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("output", "o", "wallet.json", "Keystore 输出文件路径")
	importCmd.Flags().Bool("mnemonic", false, "从 BIP-39 助记词导入")
	importCmd.Flags().String("path", hdkey.DefaultDerivationPath, "BIP-44 派生路径 (配合 --mnemonic)")
}
