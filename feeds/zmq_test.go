package feeds

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/pebbe/zmq4"
	"github.com/stretchr/testify/require"

	"ordercore/models"
)

func generateListenAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "tcp://" + addr
}

func TestZMQPublisherListenPushesTrade(t *testing.T) {
	addr := generateListenAddr(t)

	zmqCtx, err := zmq4.NewContext()
	require.NoError(t, err)

	puller, err := zmqCtx.NewSocket(zmq4.PULL)
	if err != nil {
		t.Skip("zmq not available in this environment:", err)
	}
	require.NoError(t, puller.Bind(addr))
	defer puller.Close()

	pub, err := NewZMQPublisher(addr)
	require.NoError(t, err)
	defer pub.Close()

	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	trade := models.Trade{
		TradeId:     1,
		Symbol:      "AAPL",
		BuyOrderId:  10,
		SellOrderId: 20,
		Price:       d(100),
		Quantity:    d(5),
		Timestamp:   ts,
	}

	pub.Listen([]models.Trade{trade})

	puller.SetRcvtimeo(2 * time.Second)
	data, err := puller.RecvBytes(0)
	require.NoError(t, err)
	require.Contains(t, string(data), fmt.Sprintf(`"trade_id":%d`, trade.TradeId))
	require.Contains(t, string(data), `"symbol":"AAPL"`)
}
