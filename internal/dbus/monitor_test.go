package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifyBody() []interface{} {
	return []interface{}{
		"mail",
		uint32(0),
		"mail-unread",
		"New message",
		"From: alice",
		[]string{"default", "Open"},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))},
		int32(3000),
	}
}

func TestParseNotify(t *testing.T) {
	n, err := ParseNotify(notifyBody())
	require.NoError(t, err)

	assert.Equal(t, "mail", n.AppName)
	assert.Equal(t, "New message", n.Summary)
	assert.Equal(t, "From: alice", n.Body)
	assert.Equal(t, int32(3000), n.ExpireTimeout)
	assert.True(t, n.HasAction("default"))
	assert.Equal(t, UrgencyNormal, n.Urgency())
}

func TestParseNotify_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]interface{}) []interface{}
		errMsg string
	}{
		{"short", func(b []interface{}) []interface{} { return b[:5] }, "expected 8 arguments"},
		{"app name", func(b []interface{}) []interface{} { b[0] = 1; return b }, "app_name"},
		{"replaces id", func(b []interface{}) []interface{} { b[1] = "x"; return b }, "replaces_id"},
		{"summary", func(b []interface{}) []interface{} { b[3] = nil; return b }, "summary"},
		{"body", func(b []interface{}) []interface{} { b[4] = 4; return b }, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotify(tt.mutate(notifyBody()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseNotify_ToleratesOptionalTypes(t *testing.T) {
	body := notifyBody()
	body[5] = "not-a-list"
	body[6] = 7
	body[7] = "soon"

	n, err := ParseNotify(body)
	require.NoError(t, err)
	assert.Nil(t, n.Actions)
	assert.Nil(t, n.Hints)
	assert.Zero(t, n.ExpireTimeout)
}

func notifyMessage(member string) *dbus.Message {
	return &dbus.Message{
		Type: dbus.TypeMethodCall,
		Headers: map[dbus.HeaderField]dbus.Variant{
			dbus.FieldInterface: dbus.MakeVariant(DBusInterface),
			dbus.FieldMember:    dbus.MakeVariant(member),
		},
		Body: notifyBody(),
	}
}

func TestIsNotifyCall(t *testing.T) {
	assert.True(t, isNotifyCall(notifyMessage("Notify")))
	assert.False(t, isNotifyCall(notifyMessage("CloseNotification")))

	signal := notifyMessage("Notify")
	signal.Type = dbus.TypeSignal
	assert.False(t, isNotifyCall(signal))

	bare := &dbus.Message{Type: dbus.TypeMethodCall}
	assert.False(t, isNotifyCall(bare))
}

func TestMonitor_HandleNotify(t *testing.T) {
	m := NewMonitor(nil)
	var got []*Notification
	m.SetNotifyHandler(func(n *Notification, id uint32) {
		assert.Zero(t, id)
		got = append(got, n)
	})

	m.handleNotify(notifyMessage("Notify"))

	bad := notifyMessage("Notify")
	bad.Body = bad.Body[:2]
	m.handleNotify(bad)

	require.Len(t, got, 1)
	assert.Equal(t, "New message", got[0].Summary)
}

func TestMonitor_StopWithoutStart(t *testing.T) {
	assert.NoError(t, NewMonitor(nil).Stop())
}
