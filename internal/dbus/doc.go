// Package dbus feeds desktop notifications from the session bus into
// banners. A Monitor eavesdrops on Notify calls meant for another daemon;
// a Server claims org.freedesktop.Notifications and reports banner
// outcomes back to senders as NotificationClosed and ActionInvoked
// signals.
package dbus
