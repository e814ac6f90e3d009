package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"gopkg.in/yaml.v3"

	grpc_adapter "github.com/averho/go-bank-ledger/internal/app/ledger/adapter/in/grpc"
	kafka_adapter "github.com/averho/go-bank-ledger/internal/app/ledger/adapter/out/kafka"
	memory_adapter "github.com/averho/go-bank-ledger/internal/app/ledger/adapter/out/memory"
	mysql_adapter "github.com/averho/go-bank-ledger/internal/app/ledger/adapter/out/mysql"
	postgres_adapter "github.com/averho/go-bank-ledger/internal/app/ledger/adapter/out/postgres"
	"github.com/averho/go-bank-ledger/internal/app/ledger/accountid"
	"github.com/averho/go-bank-ledger/internal/app/ledger/domain"
	"github.com/averho/go-bank-ledger/internal/app/ledger/usecase"
	"github.com/averho/go-bank-ledger/pkg/mysql"
	"github.com/averho/go-bank-ledger/pkg/wal"
	pb "github.com/averho/go-bank-ledger/proto"
)

type Config struct {
	Listen  string `yaml:"listen"`
	Storage string `yaml:"storage"` // "memory" | "mysql" | "postgres"
	WALPath string `yaml:"wal_path"`

	MySQL    mysql.Config `yaml:"mysql"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	Policy struct {
		MinDeposit   string `yaml:"min_deposit"`
		MinWithdraw  string `yaml:"min_withdraw"`
		WithdrawUnit string `yaml:"withdraw_unit"`
		MinTransfer  string `yaml:"min_transfer"`
	} `yaml:"policy"`

	// 開戶在引擎之外；這裡只負責把種子帳戶放進儲存層
	SeedAccounts []SeedAccount `yaml:"seed_accounts"`
}

type SeedAccount struct {
	ID      string `yaml:"id"` // 留空則隨機產生 10 位數帳號
	Name    string `yaml:"name"`
	Balance string `yaml:"balance"`
}

func main() {
	// .env 存在就載入 (本機開發用)，失敗不致命
	_ = godotenv.Load()

	cfg := loadConfig()

	// 1. 初始化儲存層
	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to init %s store: %v", cfg.Storage, err)
	}
	defer cleanup()
	log.Printf("Using %s store", cfg.Storage)

	// 2. 種子帳戶
	if err := seedAccounts(context.Background(), store, cfg.SeedAccounts); err != nil {
		log.Fatalf("Failed to seed accounts: %v", err)
	}

	// 3. 事件發布 (未設定 broker 則不發布)
	var events usecase.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka_adapter.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		events = publisher
		log.Printf("Publishing events to Kafka %v topic %q", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// 4. 初始化引擎與 gRPC Adapter
	engine := usecase.NewEngine(store, events, buildPolicy(cfg))
	grpcServer := grpc_adapter.NewServer(engine)

	// 5. 啟動 gRPC Server
	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	s := grpc.NewServer()
	pb.RegisterLedgerServiceServer(s, grpcServer)
	reflection.Register(s) // 方便 gRPC Client 測試 (如 Postman/grpcurl)

	// Graceful Shutdown
	go func() {
		log.Printf("Starting gRPC server on %s", cfg.Listen)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	s.GracefulStop()
	log.Println("Server exited")
}

// buildStore 依設定建立儲存層，回傳 store 與資源釋放函數。
func buildStore(cfg Config) (usecase.Store, func(), error) {
	switch cfg.Storage {
	case "memory", "":
		var journal *wal.WAL
		if cfg.WALPath != "" {
			var err error
			if journal, err = wal.Open(cfg.WALPath); err != nil {
				return nil, nil, err
			}
		}
		store, err := memory_adapter.NewStore(journal)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if journal != nil {
				journal.Close()
			}
		}
		return store, cleanup, nil

	case "mysql":
		client, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		return mysql_adapter.NewStore(client), func() { client.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres_adapter.NewStore(db), func() { db.Close() }, nil

	default:
		return nil, nil, errors.New("unknown storage backend: " + cfg.Storage)
	}
}

// seedAccounts 建立種子帳戶；已存在的帳戶直接略過。
func seedAccounts(ctx context.Context, store usecase.Store, seeds []SeedAccount) error {
	for _, seed := range seeds {
		id := seed.ID
		if id == "" {
			var err error
			id, err = accountid.Generate(func(candidate string) (bool, error) {
				_, err := store.Account(ctx, candidate)
				if errors.Is(err, domain.ErrAccountNotFound) {
					return false, nil
				}
				return err == nil, err
			})
			if err != nil {
				return err
			}
		}

		balance, err := domain.ParseAmount(seed.Balance)
		if err != nil {
			return err
		}
		err = store.CreateAccount(ctx, domain.NewAccount(id, seed.Name, balance.Decimal()))
		if errors.Is(err, domain.ErrAccountAlreadyExists) {
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("Seeded account %s (%s) balance %s", id, seed.Name, balance)
	}
	return nil
}

// buildPolicy 套用設定檔的限額，沒寫的欄位用預設值。
func buildPolicy(cfg Config) usecase.Policy {
	policy := usecase.DefaultPolicy()
	if v := cfg.Policy.MinDeposit; v != "" {
		policy.MinDeposit = domain.MustAmount(v)
	}
	if v := cfg.Policy.MinWithdraw; v != "" {
		policy.MinWithdraw = domain.MustAmount(v)
	}
	if v := cfg.Policy.WithdrawUnit; v != "" {
		policy.WithdrawUnit = domain.MustAmount(v)
	}
	if v := cfg.Policy.MinTransfer; v != "" {
		policy.MinTransfer = domain.MustAmount(v)
	}
	return policy
}

func loadConfig() Config {
	path := os.Getenv("LEDGER_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	cfgData, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	// 機密與環境相關設定允許用環境變數覆寫
	if v := os.Getenv("LEDGER_MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("LEDGER_PG_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("LEDGER_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}

	if cfg.Listen == "" {
		cfg.Listen = ":50051"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "ledger.transaction_committed"
	}
	// 補全 MySQL 預設配置 (如果 yaml 沒寫)
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	return cfg
}
