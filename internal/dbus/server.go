package dbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// CloseHandler is called when CloseNotification is requested.
type CloseHandler func(id uint32)

// introspectableInterface is the standard introspection interface name.
const introspectableInterface = "org.freedesktop.DBus.Introspectable"

// introspectXML describes the exported object.
const introspectXML = `<node>
	<interface name="` + DBusInterface + `">
		<method name="GetCapabilities">
			<arg name="capabilities" type="as" direction="out"/>
		</method>
		<method name="GetServerInformation">
			<arg name="name" type="s" direction="out"/>
			<arg name="vendor" type="s" direction="out"/>
			<arg name="version" type="s" direction="out"/>
			<arg name="spec_version" type="s" direction="out"/>
		</method>
		<method name="Notify">
			<arg name="app_name" type="s" direction="in"/>
			<arg name="replaces_id" type="u" direction="in"/>
			<arg name="app_icon" type="s" direction="in"/>
			<arg name="summary" type="s" direction="in"/>
			<arg name="body" type="s" direction="in"/>
			<arg name="actions" type="as" direction="in"/>
			<arg name="hints" type="a{sv}" direction="in"/>
			<arg name="expire_timeout" type="i" direction="in"/>
			<arg name="id" type="u" direction="out"/>
		</method>
		<method name="CloseNotification">
			<arg name="id" type="u" direction="in"/>
		</method>
		<signal name="NotificationClosed">
			<arg name="id" type="u"/>
			<arg name="reason" type="u"/>
		</signal>
		<signal name="ActionInvoked">
			<arg name="id" type="u"/>
			<arg name="action_key" type="s"/>
		</signal>
	</interface>` + introspect.IntrospectDataString + `</node>`

// busConn is the part of *dbus.Conn the server uses.
type busConn interface {
	Export(v any, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
	Emit(path dbus.ObjectPath, name string, values ...any) error
}

func sessionBus() (busConn, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Server owns org.freedesktop.Notifications and shows every Notify call
// as a banner. Each notification stays tracked until its banner reports an
// outcome (Expired, Dismissed, Dropped or Activated), which is then sent
// back to the sender as a signal.
type Server struct {
	logger  *slog.Logger
	connect func() (busConn, error)

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	running   bool

	nextID atomic.Uint32

	notifyHandler NotificationHandler
	closeHandler  CloseHandler
	serverInfo    ServerInfo

	mu     sync.RWMutex
	conn   busConn
	active map[uint32]*Notification
}

// NewServer creates a new Server.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		connect:    sessionBus,
		active:     make(map[uint32]*Notification),
		serverInfo: DefaultServerInfo(),
	}
}

// SetNotifyHandler sets the handler called when a notification is received.
func (s *Server) SetNotifyHandler(handler NotificationHandler) {
	s.notifyHandler = handler
}

// SetCloseHandler sets the handler called when CloseNotification is requested.
func (s *Server) SetCloseHandler(handler CloseHandler) {
	s.closeHandler = handler
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *Server) SetServerInfo(info ServerInfo) {
	s.serverInfo = info
}

// Start connects to the session bus, exports the service and claims the
// bus name. On failure nothing stays exported.
func (s *Server) Start() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := s.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := s.claim(conn); err != nil {
		unexport(conn)
		return err
	}

	s.setConn(conn)
	s.running = true
	s.logger.Info("D-Bus notification server started", "bus_name", DBusBusName, "path", DBusPath)
	return nil
}

func (s *Server) claim(conn busConn) error {
	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), DBusPath, introspectableInterface); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}
	return nil
}

func unexport(conn busConn) {
	_ = conn.Export(nil, DBusPath, DBusInterface)
	_ = conn.Export(nil, DBusPath, introspectableInterface)
}

// Stop releases the bus name and removes the exports. The shared session
// connection stays open.
func (s *Server) Stop() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if !s.running {
		return nil
	}

	conn := s.bus()
	s.setConn(nil)
	if _, err := conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	unexport(conn)
	s.running = false

	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// GetCapabilities returns the list of capabilities supported by this server.
// D-Bus method: GetCapabilities() -> as
func (s *Server) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation returns information about the notification server.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *Server) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, s.serverInfo.SpecVersion, nil
}

// Notify tracks the notification and hands it to the notify handler.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (s *Server) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	id := replacesID
	if id == 0 {
		id = s.nextID.Add(1)
	}

	n := &Notification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}
	s.logger.Debug("notification received", "id", id, "app_name", appName, "replaces_id", replacesID)

	s.mu.Lock()
	s.active[id] = n
	s.mu.Unlock()

	if s.notifyHandler != nil {
		s.notifyHandler(n, id)
	}
	return id, nil
}

// CloseNotification takes the banner for id down at the sender's request.
// D-Bus method: CloseNotification(u) -> nothing
func (s *Server) CloseNotification(id uint32) *dbus.Error {
	if !s.MarkClosed(id) {
		return nil
	}
	s.logger.Debug("notification closed by sender", "id", id)

	if s.closeHandler != nil {
		s.closeHandler(id)
	}
	if err := s.EmitNotificationClosed(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
	return nil
}

// Expired reports that the banner for id timed out.
func (s *Server) Expired(id uint32) error {
	return s.CloseWithReason(id, CloseReasonExpired)
}

// Dismissed reports that the user dismissed the banner for id.
func (s *Server) Dismissed(id uint32) error {
	return s.CloseWithReason(id, CloseReasonDismissed)
}

// Dropped reports that id never got a banner because one was already on
// screen.
func (s *Server) Dropped(id uint32) error {
	return s.CloseWithReason(id, CloseReasonUndefined)
}

// Activated reports a tap on the banner for id. Notifications offering a
// default action get ActionInvoked; the rest are closed as dismissed.
func (s *Server) Activated(id uint32) error {
	n := s.notification(id)
	if n == nil {
		return nil
	}
	if n.HasAction("default") {
		return s.InvokeAction(id, "default", n.Resident())
	}
	return s.Dismissed(id)
}

// MarkClosed stops tracking id. It reports whether the id was still active.
func (s *Server) MarkClosed(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[id]
	delete(s.active, id)
	return ok
}

// IsActive returns true if the notification ID is currently active.
func (s *Server) IsActive(id uint32) bool {
	return s.notification(id) != nil
}

func (s *Server) bus() busConn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Server) setConn(conn busConn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Server) notification(id uint32) *Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[id]
}
