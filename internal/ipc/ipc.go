// Package ipc is the single-instance control channel.
//
// One voxclip session owns a unix socket; later invocations detect the owner
// and forward their command to it instead of starting a second session. The
// wire format is one JSON request line answered by one JSON response line.
package ipc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Commands understood by a session owner.
const (
	CommandStatus = "status"
	CommandToggle = "toggle"
	CommandStop   = "stop"
	CommandCancel = "cancel"
)

// Request is one control command sent to the session owner.
type Request struct {
	Command string `json:"command"`
}

// Response is the owner's reply to one request.
type Response struct {
	OK         bool   `json:"ok"`
	State      string `json:"state,omitempty"`
	Message    string `json:"message,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SocketPath resolves the per-user control socket location, preferring the
// XDG runtime directory.
func SocketPath() string {
	if runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); runtimeDir != "" {
		return filepath.Join(runtimeDir, "voxclip.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("voxclip-%d.sock", os.Getuid()))
}
