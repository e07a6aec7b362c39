package feeds

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pebbe/zmq4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"ordercore/logging"
	"ordercore/models"
)

var zmqSendCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "ordercore_zmq_trade_send_total",
	Help: "trades pushed over the zmq feed, by symbol",
}, []string{"symbol"})

func init() {
	prometheus.MustRegister(zmqSendCounter)
}

// zmqTradeMessage is the wire shape pushed over the socket.
type zmqTradeMessage struct {
	TradeID     uint64    `json:"trade_id"`
	Symbol      string    `json:"symbol"`
	BuyOrderID  uint64    `json:"buy_order_id"`
	SellOrderID uint64    `json:"sell_order_id"`
	Price       string    `json:"price"`
	Quantity    string    `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
}

// ZMQPublisher pushes each matched trade over a ZeroMQ PUSH socket: same
// socket options (send high-water mark, linger, reconnect interval),
// same jsoniter + pkg/errors wrapping, reduced to a one-way trade feed.
type ZMQPublisher struct {
	soc    *zmq4.Socket
	sendMx sync.Mutex
	addr   string
}

// NewZMQPublisher creates a PUSH socket connected to addr.
func NewZMQPublisher(addr string) (*ZMQPublisher, error) {
	soc, err := zmq4.NewSocket(zmq4.PUSH)
	if err != nil {
		return nil, errors.WithMessage(err, "create zmq push socket")
	}
	if err := soc.SetSndhwm(100000); err != nil {
		return nil, errors.WithMessage(err, "set send high-water mark")
	}
	if err := soc.SetLinger(5 * time.Second); err != nil {
		return nil, errors.WithMessage(err, "set linger timeout")
	}
	if err := soc.SetReconnectIvl(time.Second); err != nil {
		return nil, errors.WithMessage(err, "set reconnect interval")
	}
	if err := soc.Connect(addr); err != nil {
		return nil, errors.WithMessagef(err, "connect %s", addr)
	}

	return &ZMQPublisher{soc: soc, addr: addr}, nil
}

// Listen is a TradeListener: push each trade in the batch as its own
// message. Send failures are logged, not returned — a listener's errors
// are the caller's responsibility, not the engine's.
func (p *ZMQPublisher) Listen(trades []models.Trade) {
	for _, t := range trades {
		msg := zmqTradeMessage{
			TradeID:     uint64(t.TradeId),
			Symbol:      string(t.Symbol),
			BuyOrderID:  uint64(t.BuyOrderId),
			SellOrderID: uint64(t.SellOrderId),
			Price:       t.Price.String(),
			Quantity:    t.Quantity.String(),
			Timestamp:   t.Timestamp,
		}

		data, err := jsoniter.Marshal(msg)
		if err != nil {
			logging.LogRepositoryError("zmq_publish_marshal", err)
			continue
		}

		p.sendMx.Lock()
		_, err = p.soc.SendBytes(data, zmq4.DONTWAIT)
		p.sendMx.Unlock()

		if err != nil {
			logging.LogRepositoryError("zmq_publish_send", errors.WithMessagef(err, "push to %s", p.addr))
			continue
		}
		zmqSendCounter.WithLabelValues(string(t.Symbol)).Inc()
	}
}

// Close releases the underlying socket.
func (p *ZMQPublisher) Close() error {
	return p.soc.Close()
}
