package grpcpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReusesConnection(t *testing.T) {
	p := New()
	defer p.Close()

	c1, err := p.Get("127.0.0.1:50051")
	require.NoError(t, err)
	c2, err := p.Get("127.0.0.1:50051")
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	c3, err := p.Get("127.0.0.1:50052")
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)
}

func TestGetAfterClose(t *testing.T) {
	p := New()

	c1, err := p.Get("127.0.0.1:50051")
	require.NoError(t, err)
	require.NoError(t, p.Close())

	// 關掉的連線不能重用，要拿到一條新的
	c2, err := p.Get("127.0.0.1:50051")
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	require.NoError(t, p.Close())
}
