package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Wallet WalletConfig `mapstructure:"wallet"`
	Chain  ChainConfig  `mapstructure:"chain"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type WalletConfig struct {
	KeystorePath string `mapstructure:"keystore_path"` // 本地 Keystore 文件路径
	Password     string `mapstructure:"password"`      // Keystore 密码 (通常通过环境变量 WALLET_PASSWORD 传入)
	Mnemonic     string `mapstructure:"mnemonic"`      // 开发环境 fallback, 生产禁用
}

// ChainConfig 描述目标链与交易参数 (默认 Sepolia 测试网)。
type ChainConfig struct {
	RpcUrl  string `mapstructure:"rpc_url"`
	ChainID int64  `mapstructure:"chain_id"`

	GasLimit uint64 `mapstructure:"gas_limit"`

	// Fee 模型二选一: "legacy" 用 gas_price_gwei;
	// "dynamic" 用 max_fee_gwei + max_priority_fee_gwei。
	FeeMode            string `mapstructure:"fee_mode"`
	GasPriceGwei       int64  `mapstructure:"gas_price_gwei"`
	MaxFeeGwei         int64  `mapstructure:"max_fee_gwei"`
	MaxPriorityFeeGwei int64  `mapstructure:"max_priority_fee_gwei"`

	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	TimeoutMs      int `mapstructure:"timeout_ms"`
}

var Global Config

func Init() {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// 环境变量设置
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 设置默认值
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found, using defaults and environment variables")
		} else {
			log.Fatalf("Fatal error config file: %s \n", err)
		}
	}

	if err := viper.Unmarshal(&Global); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.http_port", "8080")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.user", "transfer_user")
	viper.SetDefault("db.password", "transfer_password")
	viper.SetDefault("db.name", "transfer_db")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.mq_type", "redis")

	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})

	viper.SetDefault("wallet.keystore_path", "wallet.json")

	// Sepolia: 公共 RPC + 链 ID 11155111; 100 gwei 对 Sepolia 足够安全
	viper.SetDefault("chain.rpc_url", "https://ethereum-sepolia.publicnode.com")
	viper.SetDefault("chain.chain_id", int64(11155111))
	viper.SetDefault("chain.gas_limit", uint64(21000))
	viper.SetDefault("chain.fee_mode", "legacy")
	viper.SetDefault("chain.gas_price_gwei", int64(100))
	viper.SetDefault("chain.max_fee_gwei", int64(0))
	viper.SetDefault("chain.max_priority_fee_gwei", int64(0))
	viper.SetDefault("chain.poll_interval_ms", 3000)
	viper.SetDefault("chain.timeout_ms", 180000)
}
