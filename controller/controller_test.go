package controller

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/oscdeck/oscdeck/osc"
	gomock "go.uber.org/mock/gomock"
)

var (
	playKey  = ConfigKey{Group: "[Channel1]", Item: "play"}
	rateKey  = ConfigKey{Group: "[Channel1]", Item: "rate"}
	vuKey    = ConfigKey{Group: "[Channel1]", Item: "vu_meter"}
	testConf = Config{Name: "test", Host: "127.0.0.1", SendPort: 7700, RecvPort: 9000}
)

type recordedMessage struct {
	dir  Direction
	addr string
}

type messageLog struct {
	mu   sync.Mutex
	msgs []recordedMessage
}

func (l *messageLog) Record(dir Direction, _ string, msg *osc.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, recordedMessage{dir, msg.Address})
	return nil
}

func (l *messageLog) all() []recordedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedMessage(nil), l.msgs...)
}

var _ = Describe("Controller", func() {
	var (
		mockCtrl *gomock.Controller
		controls *MockControls
		sender   *MockSender
		c        *Controller
		mapping  *MappingSet
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		controls = NewMockControls(mockCtrl)
		sender = NewMockSender(mockCtrl)

		mapping = NewMappingSet()
		mapping.AddInputMapping(Mapping{Address: "/deck/1/play", Control: playKey})
		mapping.AddInputMapping(Mapping{Address: "/deck/1/rate", Control: rateKey})
		mapping.AddInputMapping(Mapping{Address: "/deck/1/rate", Control: vuKey})

		c = New(testConf, controls, WithSender(sender), WithLogger(testLogger()))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should derive its addresses from the config", func() {
		Expect(testConf.SendAddr()).To(Equal("127.0.0.1:7700"))
		Expect(testConf.RecvAddr()).To(Equal("0.0.0.0:9000"))
		Expect(c.Name()).To(Equal("test"))
		Expect(c.ID().IsNil()).To(BeFalse())
	})

	It("should not be mappable without a mapping", func() {
		Expect(c.IsMappable()).To(BeFalse())
		Expect(c.Mapping()).To(BeNil())

		c.MessageReceived(osc.NewMessage("/deck/1/play", osc.Int32(1)))
	})

	It("should hand out copies of its mapping", func() {
		c.SetMapping(mapping)
		Expect(c.IsMappable()).To(BeTrue())

		copied := c.Mapping()
		copied.RemoveInputMapping("/deck/1/play")
		Expect(c.Mapping().InputMappings("/deck/1/play")).To(HaveLen(1))
	})

	Context("when a message is received", func() {
		BeforeEach(func() {
			c.SetMapping(mapping)
		})

		It("should set the mapped control from an int", func() {
			controls.EXPECT().SetParameter(playKey, 5.0).Return(nil)
			c.MessageReceived(osc.NewMessage("/deck/1/play", osc.Int32(5)))
		})

		It("should set the mapped control from a float", func() {
			controls.EXPECT().SetParameter(playKey, 0.5).Return(nil)
			c.MessageReceived(osc.NewMessage("/deck/1/play", osc.Float32(0.5)))
		})

		It("should set every control mapped to the address", func() {
			controls.EXPECT().SetParameter(rateKey, 0.25).Return(nil)
			controls.EXPECT().SetParameter(vuKey, 0.25).Return(nil)
			c.MessageReceived(osc.NewMessage("/deck/1/rate", osc.Float32(0.25)))
		})

		It("should ignore messages without a single number", func() {
			c.MessageReceived(osc.NewMessage("/deck/1/play", osc.String("on")))
			c.MessageReceived(osc.NewMessage("/deck/1/play", osc.Blob{1}))
			c.MessageReceived(osc.NewMessage("/deck/1/play"))
			c.MessageReceived(osc.NewMessage("/deck/1/play", osc.Int32(1), osc.Int32(2)))
		})

		It("should ignore unmapped addresses", func() {
			c.MessageReceived(osc.NewMessage("/deck/2/play", osc.Int32(1)))
		})

		It("should survive a failing control", func() {
			controls.EXPECT().SetParameter(rateKey, 1.0).Return(ErrUnknownControl)
			controls.EXPECT().SetParameter(vuKey, 1.0).Return(nil)
			c.MessageReceived(osc.NewMessage("/deck/1/rate", osc.Int32(1)))
		})
	})

	It("should not build outputs once closed", func() {
		table := NewControlTable(playKey)
		out := NewMappingSet()
		out.AddOutputMapping(Mapping{Address: "/deck/1/play/led", Control: playKey})

		c = New(testConf, table, WithSender(sender), WithLogger(testLogger()))
		c.SetMapping(out)

		// A mapping change that lost the race against Close.
		c.applyMapping()
		Expect(c.outputs).To(BeEmpty())

		// The sender mock has no expectations, so any send fails the test.
		Expect(table.SetParameter(playKey, 1)).To(Succeed())
	})

	It("should not send while closed", func() {
		err := c.SendMessage(osc.NewMessage("/deck/1/play", osc.Float32(1)))
		Expect(err).To(MatchError(ErrNotOpen))
		Expect(c.Close()).To(MatchError(ErrNotOpen))
	})

	Context("when open", func() {
		var (
			conn   net.PacketConn
			log    *messageLog
			table  *ControlTable
			client *osc.Client
		)

		BeforeEach(func() {
			var err error
			conn, err = net.ListenPacket("udp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())

			client, err = osc.Dial(conn.LocalAddr().String())
			Expect(err).ToNot(HaveOccurred())

			log = &messageLog{}
			table = NewControlTable(playKey, rateKey)
			c = New(testConf, table,
				WithSender(sender),
				WithPacketConn(conn),
				WithRecorder(log),
				WithLogger(testLogger()))
			c.SetMapping(mapping)

			sender.EXPECT().Send(osc.NewMessage("/deck/1/play", osc.Float32(0))).Return(nil)
			sender.EXPECT().Send(osc.NewMessage("/deck/1/rate", osc.Float32(0))).Return(nil)
			Expect(c.Open(context.Background())).To(Succeed())
		})

		AfterEach(func() {
			if c.IsOpen() {
				Expect(c.Close()).To(Succeed())
			}
			client.Close()
			conn.Close()
		})

		It("should refuse to open twice", func() {
			Expect(c.IsOpen()).To(BeTrue())
			Expect(c.Open(context.Background())).To(MatchError(ErrAlreadyOpen))
		})

		It("should send control changes", func() {
			sender.EXPECT().Send(osc.NewMessage("/deck/1/rate", osc.Float32(0.75))).Return(nil)
			Expect(table.SetParameter(rateKey, 0.75)).To(Succeed())

			Expect(log.all()).To(ContainElement(recordedMessage{Sent, "/deck/1/rate"}))
		})

		It("should report send failures without failing the control", func() {
			sender.EXPECT().Send(gomock.Any()).Return(errors.New("network down")).Times(2)
			Expect(table.SetParameter(playKey, 1)).To(Succeed())
			Expect(c.SendMessage(osc.NewMessage("/x"))).ToNot(Succeed())
		})

		It("should drive controls from the network and echo them back", func() {
			echoed := make(chan struct{}, 1)
			sender.EXPECT().
				Send(osc.NewMessage("/deck/1/play", osc.Float32(1))).
				DoAndReturn(func(osc.Packet) error {
					echoed <- struct{}{}
					return nil
				})

			Expect(client.Send(osc.NewMessage("/deck/1/play", osc.Int32(1)))).To(Succeed())

			Eventually(echoed).Should(Receive())
			Expect(table.Get(playKey)).To(Equal(1.0))
			Expect(log.all()).To(ContainElement(recordedMessage{Received, "/deck/1/play"}))
		})

		It("should rebuild outputs when the mapping changes", func() {
			next := NewMappingSet()
			next.AddOutputMapping(Mapping{Address: "/deck/1/rate/led", Control: rateKey})

			sender.EXPECT().Send(osc.NewMessage("/deck/1/rate/led", osc.Float32(0))).Return(nil)
			c.SetMapping(next)

			sender.EXPECT().Send(osc.NewMessage("/deck/1/rate/led", osc.Float32(0.5))).Return(nil)
			Expect(table.SetParameter(rateKey, 0.5)).To(Succeed())

			// The old play mapping is gone.
			Expect(table.SetParameter(playKey, 1)).To(Succeed())
		})

		It("should stop sending once closed", func() {
			Expect(c.Close()).To(Succeed())
			Expect(c.IsOpen()).To(BeFalse())

			Expect(table.SetParameter(playKey, 1)).To(Succeed())
			Expect(c.SendMessage(osc.NewMessage("/x"))).To(MatchError(ErrNotOpen))
			Expect(c.Close()).To(MatchError(ErrNotOpen))
		})

		It("should not rebuild outputs for a mapping set after close", func() {
			Expect(c.Close()).To(Succeed())

			next := NewMappingSet()
			next.AddOutputMapping(Mapping{Address: "/deck/1/rate/led", Control: rateKey})
			c.SetMapping(next)

			Expect(c.outputs).To(BeEmpty())
			Expect(table.SetParameter(rateKey, 0.5)).To(Succeed())
		})
	})
})

var _ = Describe("Controller transport", func() {
	It("should dial and bind when no transport is given", func() {
		peer, err := net.ListenPacket("udp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())
		defer peer.Close()

		port := peer.LocalAddr().(*net.UDPAddr).Port
		table := NewControlTable(playKey)
		mapping := NewMappingSet()
		mapping.AddOutputMapping(Mapping{Address: "/deck/1/play/led", Control: playKey})

		c := New(Config{Name: "udp", Host: "127.0.0.1", SendPort: port, RecvPort: 0}, table,
			WithLogger(testLogger()))
		c.SetMapping(mapping)
		Expect(c.Open(context.Background())).To(Succeed())
		defer c.Close()

		// Applying the mapping sends the current value.
		srv := &osc.Server{ReadTimeout: 5 * time.Second}
		msgs, _, err := srv.ReceivePacketFromConn(peer)
		Expect(err).ToNot(HaveOccurred())
		Expect(msgs).To(Equal([]*osc.Message{osc.NewMessage("/deck/1/play/led", osc.Float32(0))}))
	})

	It("should fail to open on a bad host", func() {
		c := New(Config{Name: "bad", Host: "bad host name", SendPort: 1}, NewControlTable(),
			WithLogger(testLogger()))
		Expect(c.Open(context.Background())).ToNot(Succeed())
		Expect(c.IsOpen()).To(BeFalse())
	})
})
