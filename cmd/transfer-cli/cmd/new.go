package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"transfer-core/pkg/hdkey"
	"transfer-core/pkg/keystore"
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的账户",
	Long: `生成一个新的随机账户，加密保存为 Keystore 文件。
加 --mnemonic 则改为生成 BIP-39 助记词并派生默认路径账户 (m/44'/60'/0'/0/0)。`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		useMnemonic, _ := cmd.Flags().GetBool("mnemonic")

		var acct *keystore.Account
		var err error

		if useMnemonic {
			fmt.Println("正在生成新助记词钱包...")
			mnemonic, err := hdkey.GenerateMnemonic(256) // 24 words
			if err != nil {
				fmt.Printf("生成助记词失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("---------------------------------------------------")
			fmt.Printf("助记词 (Mnemonic): \n%s\n", mnemonic)
			fmt.Println("---------------------------------------------------")
			fmt.Println("请妥善保管您的助记词！任何拥有助记词的人都可以控制该账户的所有资产。")

			wallet, err := hdkey.NewFromMnemonic(mnemonic, "")
			if err != nil {
				fmt.Printf("派生钱包失败: %v\n", err)
				os.Exit(1)
			}
			acct, err = wallet.DeriveAccount(hdkey.DefaultDerivationPath)
			if err != nil {
				fmt.Printf("派生账户失败: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("正在生成新账户...")
			acct, err = keystore.Create()
			if err != nil {
				fmt.Printf("生成账户失败: %v\n", err)
				os.Exit(1)
			}
		}

		password, err := promptPassword("请设置 Keystore 密码: ")
		if err != nil {
			fmt.Printf("读取密码失败: %v\n", err)
			os.Exit(1)
		}
		confirm, err := promptPassword("请再次输入密码: ")
		if err != nil || password != confirm {
			fmt.Println("两次输入的密码不一致")
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

		fmt.Printf("\n✅ 账户创建成功!\n")
		fmt.Printf("地址 (Address): %s\n", acct.Address.Hex())
		fmt.Printf("Keystore 已保存到: %s\n", output)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("output", "o", "wallet.json", "Keystore 输出文件路径")
	newCmd.Flags().Bool("mnemonic", false, "生成 BIP-39 助记词并派生账户")
}
