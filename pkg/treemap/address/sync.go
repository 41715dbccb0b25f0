package address

import (
	"github.com/matzehuels/sizemap/pkg/entry"
	"github.com/matzehuels/sizemap/pkg/treemap/zoom"
)

// Host is the external location the address is mirrored to: a browser
// fragment, a status line or a session record.
type Host interface {
	WriteAddress(addr string)
}

// HostFunc adapts a function to [Host].
type HostFunc func(addr string)

// WriteAddress calls f(addr).
func (f HostFunc) WriteAddress(addr string) { f(addr) }

// Sync keeps a zoom controller and a host address in step. User activations
// are written out; external address changes are read back in. Neither
// direction echoes into the other.
type Sync struct {
	ctrl *zoom.Controller
	host Host
	last string
}

// NewSync wires ctrl to host. A nil host keeps the address in memory only.
func NewSync(ctrl *zoom.Controller, host Host) *Sync {
	s := &Sync{ctrl: ctrl, host: host, last: Serialize(ctrl.Scope())}
	ctrl.OnChange(s.onChange)
	return s
}

// Address returns the last address written or read.
func (s *Sync) Address() string { return s.last }

// Read applies an externally changed address, such as the initial page
// location or back/forward navigation. The address this sync wrote itself
// is ignored. An unresolvable address clears the scope.
func (s *Sync) Read(addr string) *entry.Entry {
	if addr == s.last {
		return s.ctrl.Scope()
	}
	s.last = addr
	scope := Parse(s.ctrl.Root(), addr)
	s.ctrl.Set(scope, zoom.OriginAddress)
	return scope
}

func (s *Sync) onChange(ch zoom.Change) {
	if ch.Origin != zoom.OriginUser {
		return
	}
	s.last = Serialize(ch.Scope)
	if s.host != nil {
		s.host.WriteAddress(s.last)
	}
}
