package dbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_NotifyAssignsIDs(t *testing.T) {
	s := NewServer(nil)

	type call struct {
		n  *Notification
		id uint32
	}
	var calls []call
	s.SetNotifyHandler(func(n *Notification, id uint32) {
		calls = append(calls, call{n, id})
	})

	id1, derr := s.Notify("app", 0, "", "one", "", nil, nil, -1)
	require.Nil(t, derr)
	id2, _ := s.Notify("app", 0, "", "two", "", nil, nil, -1)
	id3, _ := s.Notify("app", id1, "", "one again", "", nil, nil, 1500)

	assert.Equal(t, uint32(1), id1)
	assert.Equal(t, uint32(2), id2)
	assert.Equal(t, id1, id3, "replaces_id reuses the id")

	require.Len(t, calls, 3)
	assert.Equal(t, "one again", calls[2].n.Summary)
	assert.Equal(t, int32(1500), calls[2].n.ExpireTimeout)
	assert.True(t, s.IsActive(id1))
	assert.True(t, s.IsActive(id2))
}

func TestServer_CloseNotification(t *testing.T) {
	s := NewServer(nil)
	var closed []uint32
	s.SetCloseHandler(func(id uint32) { closed = append(closed, id) })

	id, _ := s.Notify("app", 0, "", "x", "", nil, map[string]dbus.Variant{}, -1)

	assert.Nil(t, s.CloseNotification(id))
	assert.Nil(t, s.CloseNotification(id), "second close is a no-op")
	assert.Nil(t, s.CloseNotification(99))

	assert.Equal(t, []uint32{id}, closed)
	assert.False(t, s.IsActive(id))
}

func TestServer_CloseWithReasonIgnoresInactive(t *testing.T) {
	s := NewServer(nil)
	assert.NoError(t, s.CloseWithReason(7, CloseReasonExpired))
	assert.NoError(t, s.InvokeAction(7, "default", false))
}

func TestServer_SignalsNeedConnection(t *testing.T) {
	s := NewServer(nil)
	id, _ := s.Notify("app", 0, "", "x", "", nil, nil, -1)

	assert.Error(t, s.InvokeAction(id, "default", false))
	assert.Error(t, s.CloseWithReason(id, CloseReasonExpired))
	assert.False(t, s.IsActive(id))
}

func TestServer_Info(t *testing.T) {
	s := NewServer(nil)
	s.SetServerInfo(ServerInfo{Name: "n", Vendor: "v", Version: "1", SpecVersion: "1.2"})

	name, vendor, version, spec, derr := s.GetServerInformation()
	require.Nil(t, derr)
	assert.Equal(t, []string{"n", "v", "1", "1.2"}, []string{name, vendor, version, spec})

	caps, derr := s.GetCapabilities()
	require.Nil(t, derr)
	assert.Contains(t, caps, "actions")
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	assert.NoError(t, NewServer(nil).Stop())
}

type signal struct {
	name   string
	values []any
}

// fakeConn records exports and signals in place of the session bus.
type fakeConn struct {
	mu         sync.Mutex
	exports    map[string]any
	reply      dbus.RequestNameReply
	requestErr error
	released   int
	signals    []signal
}

func newFakeConn() *fakeConn {
	return &fakeConn{exports: make(map[string]any), reply: dbus.RequestNameReplyPrimaryOwner}
}

func (c *fakeConn) Export(v any, _ dbus.ObjectPath, iface string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == nil {
		delete(c.exports, iface)
		return nil
	}
	c.exports[iface] = v
	return nil
}

func (c *fakeConn) RequestName(string, dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	return c.reply, c.requestErr
}

func (c *fakeConn) ReleaseName(string) (dbus.ReleaseNameReply, error) {
	c.released++
	return dbus.ReleaseNameReplyReleased, nil
}

func (c *fakeConn) Emit(_ dbus.ObjectPath, name string, values ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signals = append(c.signals, signal{name: name, values: values})
	return nil
}

func startWithFake(t *testing.T, conn *fakeConn) *Server {
	t.Helper()
	s := NewServer(nil)
	s.connect = func() (busConn, error) { return conn, nil }
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestServer_StartExportsAndStopRemoves(t *testing.T) {
	conn := newFakeConn()
	s := startWithFake(t, conn)

	assert.Len(t, conn.exports, 2)
	assert.Error(t, s.Start(), "second start fails")
	id, _ := s.Notify("app", 0, "", "x", "", nil, nil, -1)

	require.NoError(t, s.Stop())
	assert.Empty(t, conn.exports)
	assert.Equal(t, 1, conn.released)
	assert.Error(t, s.Expired(id), "no connection after stop")
}

func TestServer_StartRollsBackWhenNameTaken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeConn)
	}{
		{"name taken", func(c *fakeConn) { c.reply = dbus.RequestNameReplyExists }},
		{"request error", func(c *fakeConn) { c.requestErr = errors.New("denied") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn()
			tt.setup(conn)
			s := NewServer(nil)
			s.connect = func() (busConn, error) { return conn, nil }

			require.Error(t, s.Start())
			assert.Empty(t, conn.exports)
			assert.Nil(t, s.bus())
			assert.NoError(t, s.Stop())
		})
	}
}

func TestServer_ConcurrentStartConnectsOnce(t *testing.T) {
	var inFlight, maxInFlight, calls atomic.Int32
	conn := newFakeConn()

	s := NewServer(nil)
	s.connect = func() (busConn, error) {
		calls.Add(1)
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		time.Sleep(10 * time.Millisecond)
		return conn, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Start()
		}(i)
	}
	wg.Wait()
	t.Cleanup(func() { _ = s.Stop() })

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, int32(1), calls.Load())
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestServer_OutcomeSignals(t *testing.T) {
	conn := newFakeConn()
	s := startWithFake(t, conn)

	expired, _ := s.Notify("app", 0, "", "a", "", nil, nil, -1)
	dismissed, _ := s.Notify("app", 0, "", "b", "", nil, nil, -1)
	dropped, _ := s.Notify("app", 0, "", "c", "", nil, nil, -1)
	plainTap, _ := s.Notify("app", 0, "", "d", "", nil, nil, -1)
	actionTap, _ := s.Notify("app", 0, "", "e", "", []string{"default", "Open"}, nil, -1)

	require.NoError(t, s.Expired(expired))
	require.NoError(t, s.Dismissed(dismissed))
	require.NoError(t, s.Dropped(dropped))
	require.NoError(t, s.Activated(plainTap))
	require.NoError(t, s.Activated(actionTap))
	require.NoError(t, s.Expired(expired), "already closed ids are ignored")

	closed := DBusInterface + ".NotificationClosed"
	assert.Equal(t, []signal{
		{closed, []any{expired, uint32(CloseReasonExpired)}},
		{closed, []any{dismissed, uint32(CloseReasonDismissed)}},
		{closed, []any{dropped, uint32(CloseReasonUndefined)}},
		{closed, []any{plainTap, uint32(CloseReasonDismissed)}},
		{DBusInterface + ".ActionInvoked", []any{actionTap, "default"}},
		{closed, []any{actionTap, uint32(CloseReasonDismissed)}},
	}, conn.signals)
}

func TestServer_ActivatedResidentStaysActive(t *testing.T) {
	conn := newFakeConn()
	s := startWithFake(t, conn)

	hints := map[string]dbus.Variant{"resident": dbus.MakeVariant(true)}
	id, _ := s.Notify("app", 0, "", "x", "", []string{"default", "Open"}, hints, -1)

	require.NoError(t, s.Activated(id))
	assert.True(t, s.IsActive(id))
	require.Len(t, conn.signals, 1)
	assert.Equal(t, DBusInterface+".ActionInvoked", conn.signals[0].name)
}

func TestServer_CloseNotificationSignalsClosed(t *testing.T) {
	conn := newFakeConn()
	s := startWithFake(t, conn)

	id, _ := s.Notify("app", 0, "", "x", "", nil, nil, -1)
	assert.Nil(t, s.CloseNotification(id))

	require.Len(t, conn.signals, 1)
	assert.Equal(t, []any{id, uint32(CloseReasonClosed)}, conn.signals[0].values)
}
