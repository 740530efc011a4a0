package liveview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/page"
	"energyrental/backend/services/rental-page/internal/view"
)

const (
	readLimit    = 64 * 1024
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 64
)

var errSessionClosed = errors.New("liveview: session closed")

// Session is one connected browser page. It implements every view handle by pushing ops
// to the browser, and turns browser events into controller calls.
type Session struct {
	id               string
	address          string
	ws               *websocket.Conn
	deps             page.Deps
	logger           *zap.Logger
	writeTimeout     time.Duration
	clipboardTimeout time.Duration

	send chan []byte
	done chan struct{}
	once sync.Once

	mu         sync.Mutex
	controller *page.Controller
	values     map[string]string
	pending    map[string]chan error
}

func newSession(ws *websocket.Conn, address string, deps page.Deps, writeTimeout, clipboardTimeout time.Duration, logger *zap.Logger) *Session {
	id := ulid.Make().String()
	return &Session{
		id:               id,
		address:          address,
		ws:               ws,
		deps:             deps,
		logger:           logger.With(zap.String("session_id", id)),
		writeTimeout:     writeTimeout,
		clipboardTimeout: clipboardTimeout,
		send:             make(chan []byte, sendBuffer),
		done:             make(chan struct{}),
		values:           make(map[string]string),
		pending:          make(map[string]chan error),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run serves the session until the browser disconnects or ctx ends. The controller, its
// poll chain and countdown stop with it.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.close()
	stop := context.AfterFunc(ctx, s.close)
	defer stop()

	go s.writePump(ctx)
	s.readPump(ctx)
}

func (s *Session) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.ws.Close()
	})
}

func (s *Session) readPump(ctx context.Context) {
	s.ws.SetReadLimit(readLimit)
	_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if ctx.Err() != nil {
			return
		}
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			s.logger.Debug("session read closed", zap.Error(err))
			return
		}
		_ = s.ws.SetReadDeadline(time.Now().Add(pongWait))

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			s.logger.Warn("dropping malformed event", zap.Error(err))
			continue
		}
		s.handle(ctx, ev)
	}
}

func (s *Session) handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventReady:
		c := s.ready(ev)
		if c != nil {
			go c.Ready(ctx)
		}
	case EventClick:
		s.mergeValues(ev.Values)
		c := s.currentController()
		if c == nil {
			s.logger.Warn("click before ready", zap.String("target", ev.Target))
			return
		}
		switch ev.Target {
		case ElemCheckEnergyBtn:
			go c.CheckEnergy(ctx)
		case ElemCheckPaymentBtn:
			go c.CheckPayment(ctx)
		case ElemCopyBtn:
			index := ev.Index
			go func() {
				if err := c.ClickCopy(ctx, index); err != nil {
					s.logger.Warn("copy click ignored", zap.Error(err))
				}
			}()
		default:
			s.logger.Debug("click on unbound element", zap.String("target", ev.Target))
		}
	case EventClipboardResult:
		s.resolveClipboard(ev)
	default:
		s.logger.Debug("unknown event", zap.String("type", ev.Type))
	}
}

// ready builds the controller from the elements the browser reports. Repeated ready events
// are ignored.
func (s *Session) ready(ev Event) *page.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controller != nil {
		return nil
	}

	present := make(map[string]bool, len(ev.Elements))
	for _, id := range ev.Elements {
		present[id] = true
	}
	address := ev.Address
	if address == "" {
		address = s.address
	}

	pg := &page.Page{Alerter: s, Clipboard: s}
	if present[ElemPaymentStatus] {
		pg.PaymentStatus = element{s, ElemPaymentStatus}
		pg.PaymentAddress = address
	}
	if present[ElemRentalDetails] {
		pg.RentalDetails = element{s, ElemRentalDetails}
	}
	if present[ElemRentalAddress] {
		pg.RentalAddress = element{s, ElemRentalAddress}
	}
	if present[ElemRentalEnergy] {
		pg.RentalEnergy = element{s, ElemRentalEnergy}
	}
	if present[ElemRentalTime] {
		pg.RentalTime = element{s, ElemRentalTime}
	}
	if present[ElemCheckPaymentBtn] {
		pg.CheckPaymentButton = element{s, ElemCheckPaymentBtn}
	}
	if present[ElemCountdown] {
		pg.Countdown = element{s, ElemCountdown}
	}
	if present[ElemEnergyStatus] {
		pg.EnergyStatus = element{s, ElemEnergyStatus}
	}
	if present[ElemEnergyMessage] {
		pg.EnergyMessage = element{s, ElemEnergyMessage}
	}
	if present[ElemRentButton] {
		pg.RentButton = element{s, ElemRentButton}
	}
	if present[ElemAddressInput] {
		pg.AddressInput = input{s, ElemAddressInput}
	}
	for _, text := range ev.Copy {
		pg.CopyButtons = append(pg.CopyButtons, page.CopyButton{Text: text})
	}

	deps := s.deps
	deps.Logger = s.logger
	s.controller = page.NewController(pg, deps)
	s.logger.Info("page ready", zap.String("address", pg.PaymentAddress), zap.Int("elements", len(present)))
	return s.controller
}

func (s *Session) currentController() *page.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller
}

func (s *Session) mergeValues(values map[string]string) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
}

func (s *Session) value(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

// push queues op for the write pump. A full buffer blocks the caller instead of dropping the
// op; a stuck browser fails the write deadline, which closes the session and releases it.
func (s *Session) push(op Op) {
	data, err := json.Marshal(op)
	if err != nil {
		s.logger.Error("encode op", zap.Error(err))
		return
	}
	select {
	case <-s.done:
	case s.send <- data:
	}
}

func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.write(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("session write failed", zap.Error(err))
				s.close()
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *Session) write(messageType int, data []byte) error {
	_ = s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.ws.WriteMessage(messageType, data)
}

// Alert implements view.Alerter.
func (s *Session) Alert(msg string) {
	s.push(Op{Op: OpAlert, Text: msg})
}

// WriteText implements view.Clipboard by asking the browser to write and waiting for its
// answer.
func (s *Session) WriteText(ctx context.Context, text string) error {
	id := ulid.Make().String()
	result := make(chan error, 1)

	s.mu.Lock()
	s.pending[id] = result
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}()

	s.push(Op{Op: OpClipboard, ID: id, Text: text})

	timer := time.NewTimer(s.clipboardTimeout)
	defer timer.Stop()
	select {
	case err := <-result:
		return err
	case <-timer.C:
		return fmt.Errorf("clipboard write %s: no answer within %s", id, s.clipboardTimeout)
	case <-s.done:
		return errSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) resolveClipboard(ev Event) {
	s.mu.Lock()
	result, ok := s.pending[ev.ID]
	s.mu.Unlock()
	if !ok {
		s.logger.Debug("clipboard result without request", zap.String("id", ev.ID))
		return
	}
	var err error
	if !ev.OK {
		msg := ev.Error
		if msg == "" {
			msg = "unknown error"
		}
		err = fmt.Errorf("browser clipboard: %s", msg)
	}
	select {
	case result <- err:
	default:
	}
}

// element is a DOM element on the browser side.
type element struct {
	s  *Session
	id string
}

func (e element) Render(n view.Notice) { e.s.push(Op{Op: OpRender, Target: e.id, Notice: &n}) }
func (e element) SetText(t string)     { e.s.push(Op{Op: OpText, Target: e.id, Text: t}) }
func (e element) SetTone(t view.Tone)  { e.s.push(Op{Op: OpTone, Target: e.id, Tone: t}) }
func (e element) SetHidden(h bool)     { e.s.push(Op{Op: OpHidden, Target: e.id, Hidden: &h}) }
func (e element) SetDisabled(d bool)   { e.s.push(Op{Op: OpDisabled, Target: e.id, Disabled: &d}) }

// input reads the value last reported by the browser.
type input struct {
	s  *Session
	id string
}

func (i input) Value() string { return i.s.value(i.id) }
