package sales

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/concesionario-api/internal/domain"
	"github.com/jhoicas/concesionario-api/internal/domain/sale"
)

// Session venta en construcción de un asesor. La configuración vive en un puntero atómico a un
// valor inmutable: los lectores (autoguardado incluido) toman fotos sin bloquear a los escritores.
type Session struct {
	ID        string
	CompanyID string
	UserID    string

	cfg           atomic.Pointer[sale.Configuration]
	savedRevision atomic.Int64
	lastTouched   atomic.Int64
	finalizing    atomic.Bool

	mu        sync.Mutex
	autosaver *Autosaver
	closed    bool

	// writeMu serializa la escritura del borrador con el cierre de la sesión.
	writeMu sync.Mutex
}

func newSession(id, companyID, userID string, cfg sale.Configuration, now time.Time) *Session {
	s := &Session{ID: id, CompanyID: companyID, UserID: userID}
	s.cfg.Store(&cfg)
	s.savedRevision.Store(-1)
	s.touch(now)
	return s
}

// Snapshot configuración vigente.
func (s *Session) Snapshot() sale.Configuration {
	return *s.cfg.Load()
}

// SavedRevision última revisión persistida como borrador (-1 = nunca).
func (s *Session) SavedRevision() int64 {
	return s.savedRevision.Load()
}

// Update aplica fn sobre la configuración vigente con compare-and-swap. fn debe ser pura: si otro
// escritor ganó la carrera se vuelve a invocar con la configuración nueva.
func (s *Session) Update(fn func(sale.Configuration) (sale.Configuration, error)) (sale.Configuration, error) {
	for {
		cur := s.cfg.Load()
		next, err := fn(*cur)
		if err != nil {
			return *cur, err
		}
		if s.cfg.CompareAndSwap(cur, &next) {
			return next, nil
		}
	}
}

func (s *Session) touch(now time.Time) {
	s.lastTouched.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastTouched.Load()))
}

// close marca la sesión como cerrada, detiene el autoguardado y espera a que termine cualquier
// escritura de borrador en curso. Devuelve false si ya estaba cerrada.
func (s *Session) close() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	a := s.autosaver
	s.autosaver = nil
	s.mu.Unlock()
	if a != nil {
		a.Stop()
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return true
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// whileOpen ejecuta fn si la sesión sigue abierta; un cierre concurrente espera a que fn termine.
func (s *Session) whileOpen(fn func() error) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.isClosed() {
		return false, nil
	}
	return true, fn()
}

// SessionStore sesiones activas en memoria.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore construye el almacén vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Put registra la sesión.
func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

// Get sesión de la empresa; ErrNotFound si no existe, ErrForbidden si es de otra empresa.
func (st *SessionStore) Get(companyID, id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// Delete quita la sesión; devuelve la sesión quitada o nil.
func (st *SessionStore) Delete(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.sessions[id]
	delete(st.sessions, id)
	return s
}

// Expired quita y devuelve las sesiones inactivas por más de ttl.
func (st *SessionStore) Expired(now time.Time, ttl time.Duration) []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*Session
	for id, s := range st.sessions {
		if s.idleSince(now) > ttl {
			out = append(out, s)
			delete(st.sessions, id)
		}
	}
	return out
}

// All copia de las sesiones activas.
func (st *SessionStore) All() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}

// Len número de sesiones activas.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
