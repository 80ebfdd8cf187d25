package listener

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/vaxhacker/aineko/internal/constants"
)

// ErrSocketInUse means another listener already owns the socket path.
var ErrSocketInUse = errors.New("socket already has a listener")

// dialTimeout bounds both the liveness probe and event sends. Listeners
// accept promptly or not at all; anything slower is treated as dead.
const dialTimeout = 2 * time.Second

// SocketStatus describes what is at a listener socket path.
type SocketStatus int

const (
	// SocketNotExist means nothing is at the path.
	SocketNotExist SocketStatus = iota

	// SocketStale means a socket file exists but nothing accepts on it,
	// usually left behind by a listener that died without retiring.
	SocketStale

	// SocketActive means a listener answered a dial.
	SocketActive
)

func (s SocketStatus) String() string {
	switch s {
	case SocketStale:
		return "stale"
	case SocketActive:
		return "active"
	default:
		return "none"
	}
}

// CheckSocket probes a socket path by dialing it.
func CheckSocket(path string) SocketStatus {
	if _, err := os.Lstat(path); err != nil {
		return SocketNotExist
	}
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return SocketStale
	}
	conn.Close()
	return SocketActive
}

// bindSocket claims a socket path: it creates the parent directory, clears
// a stale socket file, and refuses a path another listener still answers
// on. The socket is restricted to the owning user since event payloads can
// carry message text.
func bindSocket(path string) (*net.UnixListener, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return nil, fmt.Errorf("creating socket directory: %w", err)
	}

	if fi, err := os.Lstat(path); err == nil {
		if fi.Mode()&os.ModeSocket == 0 {
			return nil, fmt.Errorf("%s exists and is not a socket", path)
		}
		switch CheckSocket(path) {
		case SocketActive:
			return nil, fmt.Errorf("binding %s: %w", path, ErrSocketInUse)
		case SocketStale:
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("removing stale socket: %w", err)
			}
		}
	}

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("restricting socket permissions: %w", err)
	}
	return ln, nil
}

// Send delivers one serialized event to a listener socket. The sender
// writes the whole payload and closes; the listener reads to EOF, so no
// framing is needed beyond the connection itself.
func Send(path string, payload []byte) error {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", path, err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(dialTimeout))
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}
