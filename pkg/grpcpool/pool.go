// Package grpcpool 快取對外的 gRPC 客戶端連線，同一個目標位址共用一條。
package grpcpool

import (
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// Pool 以目標位址為鍵維護 gRPC 連線，重複 Get 回傳同一條。
// 連線是 lazy 的，第一次發 RPC 時才真正撥號。
type Pool struct {
	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

func New() *Pool {
	return &Pool{conns: make(map[string]*grpc.ClientConn)}
}

// Get 回傳通往 target 的共用連線，沒有就建立。
// 帳本服務走內網，預設不加密；keepalive 防止閒置連線被中途設備收掉。
func (p *Pool) Get(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[target]; ok {
		if conn.GetState() != connectivity.Shutdown {
			return conn, nil
		}
		delete(p.conns, target)
	}

	defaultOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             time.Second,
			PermitWithoutStream: true,
		}),
	}
	conn, err := grpc.NewClient(target, append(defaultOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("grpc client for %s: %w", target, err)
	}
	p.conns[target] = conn
	return conn, nil
}

// Close 關閉池內所有連線。之後仍可繼續 Get，會建立新連線。
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for target, conn := range p.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, target)
	}
	return firstErr
}
