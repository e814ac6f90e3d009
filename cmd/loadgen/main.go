// loadgen 對帳本引擎做並發壓測：對同一帳戶打大量存款，
// 結束後讀回餘額驗證沒有 lost update。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/averho/go-bank-ledger/pkg/grpcpool"
	pb "github.com/averho/go-bank-ledger/proto"
)

func main() {
	var (
		target      = flag.String("target", "localhost:50051", "ledger server address")
		accountID   = flag.String("account", "", "account to deposit into (required)")
		amount      = flag.String("amount", "10000", "deposit amount per request")
		totalCount  = flag.Int("n", 100000, "total requests")
		concurrency = flag.Int("c", 500, "concurrent in-flight requests")
	)
	flag.Parse()
	if *accountID == "" {
		log.Fatal("-account is required")
	}

	pool := grpcpool.New()
	defer pool.Close()

	conn, err := pool.Get(*target)
	if err != nil {
		log.Fatalf("did not connect: %v", err)
	}
	client := pb.NewLedgerServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	before, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: *accountID})
	if err != nil {
		log.Fatalf("get balance: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(*totalCount)
	sem := make(chan struct{}, *concurrency)

	startTime := time.Now()
	for i := 0; i < *totalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := client.Deposit(ctx, &pb.DepositRequest{
				AccountId: *accountID,
				Amount:    *amount,
			})
			if err != nil && idx%10000 == 0 {
				log.Printf("Deposit %d failed: %v", idx, err)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(startTime)

	after, err := client.GetBalance(ctx, &pb.GetBalanceRequest{AccountId: *accountID})
	if err != nil {
		log.Fatalf("get balance: %v", err)
	}

	fmt.Printf("Completed %d requests in %v\n", *totalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(*totalCount)/elapsed.Seconds())
	fmt.Printf("Balance: %s -> %s\n", before.GetBalance(), after.GetBalance())
}
