package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"transfer-core/internal/event"
	"transfer-core/internal/handler"
	"transfer-core/internal/server"
	"transfer-core/internal/service"
	"transfer-core/internal/service/mq"
	"transfer-core/pkg/config"
	"transfer-core/pkg/database"
	"transfer-core/pkg/ethtx"
	"transfer-core/pkg/hdkey"
	"transfer-core/pkg/keystore"
	"transfer-core/pkg/logger"
	"transfer-core/pkg/rpcclient"
	"transfer-core/pkg/utils/lock"
)

// transfer-worker 是整条转账管道的宿主进程:
// HTTP 受理 → Outbox 中继 → MQ 消费 → build/sign/submit/track。
// 它持有热钱包私钥，部署时应与面向外部的服务隔离。
func main() {
	// 1. 初始化配置与日志
	config.Init()
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	logger.Info("启动转账服务 (Transfer Worker)...", zap.String("env", config.Global.App.Env))

	// 2. 初始化数据库
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Shanghai",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3. 初始化 Redis (nonce 锁 + Redis MQ fallback)
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Global.Redis.Addr,
		Password: config.Global.Redis.Password,
		DB:       config.Global.Redis.DB,
	})

	// 4. 加载热钱包账户
	account, err := loadAccount()
	if err != nil {
		logger.Fatal("致命错误: 无法加载热钱包私钥!", zap.Error(err))
	}
	// 只记地址, 私钥绝不进日志
	logger.Info("🔐 热钱包加载成功", zap.String("address", account.Address.Hex()))

	// 5. 初始化链连接
	chain := config.Global.Chain
	rpc, err := rpcclient.Dial(chain.RpcUrl)
	if err != nil {
		logger.Fatal("RPC 连接失败", zap.String("url", chain.RpcUrl), zap.Error(err))
	}
	defer rpc.Close()

	fee, err := ethtx.FeePolicyFromGwei(chain.FeeMode, chain.GasPriceGwei, chain.MaxFeeGwei, chain.MaxPriorityFeeGwei)
	if err != nil {
		logger.Fatal("手续费配置无效", zap.Error(err))
	}

	chainID := big.NewInt(chain.ChainID)
	query := ethtx.NewQuery(rpc)
	builder := ethtx.NewBuilder(query, chainID, chain.GasLimit)
	submitter := ethtx.NewSubmitter(rpc)
	tracker := ethtx.NewTracker(rpc,
		time.Duration(chain.PollIntervalMs)*time.Millisecond,
		time.Duration(chain.TimeoutMs)*time.Millisecond,
	)

	nonceLock, err := lock.NewRedisLock(rdb)
	if err != nil {
		logger.Fatal("初始化分布式锁失败", zap.Error(err))
	}

	// 6. 初始化 MQ (Producer + Consumer)
	var producer mq.Producer
	var consumer mq.Consumer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("MQ Mode: Kafka", zap.Strings("brokers", config.Global.Kafka.Brokers))
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
		consumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, "broadcaster-group")
	} else {
		logger.Info("MQ Mode: Redis Streams")
		producer = mq.NewRedisProducer(rdb)
		consumer = mq.NewRedisConsumer(rdb, "broadcaster-group", "worker-1")
	}

	// 7. 组装服务
	transferSvc := service.NewTransferService(db, query, account.Address, chain.ChainID, fee, chain.GasLimit)
	relaySvc := service.NewRelayService(db, producer)
	broadcasterSvc := service.NewBroadcasterService(db, account, builder, submitter, tracker, fee, nonceLock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox 中继
	go relaySvc.Start(ctx)

	// 订阅转账事件
	go func() {
		logger.Info("开始监听转账事件: " + event.TopicTransferRequested)
		if err := consumer.Subscribe(ctx, event.TopicTransferRequested, broadcasterSvc.HandleTransferEvent); err != nil {
			logger.Fatal("订阅失败", zap.Error(err))
		}
	}()

	// 8. 启动 HTTP 服务
	router := server.NewHTTPRouter(handler.NewTransferHandler(transferSvc))
	go func() {
		addr := ":" + config.Global.App.HttpPort
		logger.Info("HTTP 服务启动", zap.String("addr", addr))
		if err := router.Run(addr); err != nil {
			logger.Fatal("HTTP 服务退出", zap.Error(err))
		}
	}()

	// 9. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在停止转账服务...")
	cancel()
	_ = consumer.Close()
	time.Sleep(2 * time.Second)
	logger.Info("转账服务已停止")
}

// loadAccount 加载热钱包: 优先 Keystore 文件, 开发环境可用助记词兜底。
func loadAccount() (*keystore.Account, error) {
	keystorePath := config.Global.Wallet.KeystorePath
	password := config.Global.Wallet.Password

	// 1. 尝试从 Keystore 加载
	if _, err := os.Stat(keystorePath); err == nil && password != "" {
		keyJSON, err := keystore.LoadFromFile(keystorePath)
		if err != nil {
			return nil, err
		}
		return keystore.DecryptKey(keyJSON, password)
	}

	// 2. 开发环境 Fallback: 从助记词派生默认路径账户
	if config.Global.Wallet.Mnemonic != "" {
		wallet, err := hdkey.NewFromMnemonic(config.Global.Wallet.Mnemonic, "")
		if err != nil {
			return nil, err
		}
		return wallet.DeriveAccount(hdkey.DefaultDerivationPath)
	}

	return nil, fmt.Errorf("未找到可用的私钥源 (Keystore 或 Mnemonic)")
}
