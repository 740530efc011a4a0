package liveview

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/page"
	"energyrental/backend/services/rental-page/internal/schedule"
	"energyrental/backend/services/rental-page/internal/view"
)

type stubBackend struct {
	payment *models.PaymentStatusResponse
	energy  *models.EnergyStatusResponse
	calls   atomic.Int32
}

func (s *stubBackend) PaymentStatus(context.Context, string) (*models.PaymentStatusResponse, error) {
	s.calls.Add(1)
	return s.payment, nil
}

func (s *stubBackend) EnergyStatus(context.Context, string) (*models.EnergyStatusResponse, error) {
	return s.energy, nil
}

type tracker struct{ open atomic.Int32 }

func (t *tracker) SessionOpened() { t.open.Add(1) }
func (t *tracker) SessionClosed() { t.open.Add(-1) }

func dial(t *testing.T, backend *stubBackend, tr *tracker, query string) *websocket.Conn {
	t.Helper()
	deps := page.Deps{Payments: backend, Energy: backend, Scheduler: schedule.NewManual()}
	h := NewHandler(deps, Options{ClipboardTimeout: time.Second}, tr, zap.NewNop())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readOp(t *testing.T, conn *websocket.Conn) Op {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var op Op
	require.NoError(t, conn.ReadJSON(&op))
	return op
}

func TestLiveSessionPaymentFailed(t *testing.T) {
	backend := &stubBackend{payment: &models.PaymentStatusResponse{Status: models.PaymentStatusFailed}}
	conn := dial(t, backend, &tracker{}, "?address=T222")

	require.NoError(t, conn.WriteJSON(Event{Type: EventReady, Elements: []string{ElemPaymentStatus}}))

	checking := readOp(t, conn)
	assert.Equal(t, OpRender, checking.Op)
	assert.Equal(t, ElemPaymentStatus, checking.Target)
	require.NotNil(t, checking.Notice)
	assert.True(t, checking.Notice.Busy)

	failed := readOp(t, conn)
	require.NotNil(t, failed.Notice)
	assert.Equal(t, "Failed", failed.Notice.Badge)
	assert.Equal(t, view.ToneDanger, failed.Notice.Tone)
	assert.Equal(t, int32(1), backend.calls.Load())
}

func TestLiveSessionEnergyCheck(t *testing.T) {
	backend := &stubBackend{energy: &models.EnergyStatusResponse{Status: "success", Energy: 50000, HasEnough: true}}
	conn := dial(t, backend, &tracker{}, "")

	require.NoError(t, conn.WriteJSON(Event{
		Type:     EventReady,
		Elements: []string{ElemEnergyStatus, ElemEnergyMessage, ElemRentButton, ElemAddressInput, ElemCheckEnergyBtn},
	}))
	require.NoError(t, conn.WriteJSON(Event{
		Type:   EventClick,
		Target: ElemCheckEnergyBtn,
		Values: map[string]string{ElemAddressInput: "T111"},
	}))

	status := readOp(t, conn)
	assert.Equal(t, ElemEnergyStatus, status.Target)
	require.NotNil(t, status.Notice)
	assert.Equal(t, "50000", status.Notice.Value)
	assert.Equal(t, view.ToneSuccess, status.Notice.Tone)

	message := readOp(t, conn)
	assert.Equal(t, ElemEnergyMessage, message.Target)

	rent := readOp(t, conn)
	assert.Equal(t, OpDisabled, rent.Op)
	assert.Equal(t, ElemRentButton, rent.Target)
	require.NotNil(t, rent.Disabled)
	assert.True(t, *rent.Disabled)
}

func TestLiveSessionEnergyCheckWithoutInputAlerts(t *testing.T) {
	backend := &stubBackend{}
	conn := dial(t, backend, &tracker{}, "")

	require.NoError(t, conn.WriteJSON(Event{Type: EventReady, Elements: []string{ElemEnergyStatus, ElemAddressInput}}))
	require.NoError(t, conn.WriteJSON(Event{Type: EventClick, Target: ElemCheckEnergyBtn}))

	alert := readOp(t, conn)
	assert.Equal(t, OpAlert, alert.Op)
	assert.Equal(t, page.MsgEnterAddress, alert.Text)
}

func TestLiveSessionClipboardRoundTrip(t *testing.T) {
	conn := dial(t, &stubBackend{}, &tracker{}, "")

	require.NoError(t, conn.WriteJSON(Event{Type: EventReady, Copy: []string{"TXabc123"}}))
	require.NoError(t, conn.WriteJSON(Event{Type: EventClick, Target: ElemCopyBtn, Index: 0}))

	req := readOp(t, conn)
	assert.Equal(t, OpClipboard, req.Op)
	assert.Equal(t, "TXabc123", req.Text)
	require.NotEmpty(t, req.ID)

	require.NoError(t, conn.WriteJSON(Event{Type: EventClipboardResult, ID: req.ID, OK: true}))

	ack := readOp(t, conn)
	assert.Equal(t, OpAlert, ack.Op)
	assert.Equal(t, page.MsgCopied, ack.Text)
}

func TestLiveSessionClipboardRejectedShowsNothing(t *testing.T) {
	conn := dial(t, &stubBackend{}, &tracker{}, "")

	require.NoError(t, conn.WriteJSON(Event{Type: EventReady, Copy: []string{"TXabc123"}}))
	require.NoError(t, conn.WriteJSON(Event{Type: EventClick, Target: ElemCopyBtn}))

	req := readOp(t, conn)
	require.NoError(t, conn.WriteJSON(Event{Type: EventClipboardResult, ID: req.ID, Error: "NotAllowedError"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestLiveSessionTrackerFollowsDisconnect(t *testing.T) {
	tr := &tracker{}
	conn := dial(t, &stubBackend{}, tr, "")

	require.Eventually(t, func() bool { return tr.open.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return tr.open.Load() == 0 }, time.Second, 5*time.Millisecond)
}

func TestPushWaitsForRoomInsteadOfDropping(t *testing.T) {
	s := newSession(nil, "", page.Deps{}, time.Second, time.Second, zap.NewNop())

	pushed := make(chan struct{})
	go func() {
		defer close(pushed)
		for i := 0; i <= sendBuffer; i++ {
			s.push(Op{Op: OpText, Target: ElemCountdown, Text: strconv.Itoa(i)})
		}
	}()

	require.Eventually(t, func() bool { return len(s.send) == sendBuffer }, time.Second, time.Millisecond)
	select {
	case <-pushed:
		t.Fatal("push returned with a full buffer")
	case <-time.After(20 * time.Millisecond):
	}

	var texts []string
	for i := 0; i <= sendBuffer; i++ {
		var op Op
		require.NoError(t, json.Unmarshal(<-s.send, &op))
		texts = append(texts, op.Text)
	}
	<-pushed
	assert.Equal(t, strconv.Itoa(sendBuffer), texts[sendBuffer])
	assert.Len(t, texts, sendBuffer+1)
}

func TestPushReturnsOnceSessionCloses(t *testing.T) {
	s := newSession(nil, "", page.Deps{}, time.Second, time.Second, zap.NewNop())
	for i := 0; i < sendBuffer; i++ {
		s.push(Op{Op: OpText, Target: ElemCountdown})
	}

	pushed := make(chan struct{})
	go func() {
		defer close(pushed)
		s.push(Op{Op: OpText, Target: ElemCountdown, Text: page.MsgExpired})
	}()
	close(s.done)

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("push still blocked after close")
	}
}
