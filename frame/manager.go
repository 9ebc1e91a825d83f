package frame

import (
	"container/list"
	"math"
	"sync"

	"github.com/anupshinde/astrocore/astroerr"
	"github.com/anupshinde/astrocore/instant"
	"github.com/anupshinde/astrocore/transform"
	"golang.org/x/sync/singleflight"
)

const defaultCacheCapacity = 128

// manager is the process-wide frame registry and transform cache. Its
// registry and cache are guarded independently so that a cache lookup
// never blocks on a registration happening concurrently in a different
// frame subtree — mirroring the teacher's leapLock-style narrow-scope
// RWMutex usage rather than one coarse lock for the whole package.
type manager struct {
	registryMu sync.RWMutex
	registry   map[string]*Frame

	cacheMu  sync.Mutex
	cache    map[cacheKey]*list.Element // key -> node in lru
	lru      *list.List                 // front = most recently used
	capacity int

	group singleflight.Group
}

type cacheKey struct {
	from, to    string
	instantBits uint64
}

type cacheEntry struct {
	key cacheKey
	val transform.Transform
}

var (
	instanceOnce sync.Once
	instance     *manager
)

func managerInstance() *manager {
	instanceOnce.Do(func() {
		instance = newManager()
	})
	return instance
}

func newManager() *manager {
	return &manager{
		registry: make(map[string]*Frame),
		cache:    make(map[cacheKey]*list.Element),
		lru:      list.New(),
		capacity: defaultCacheCapacity,
	}
}

func instantBits(i instant.Instant) uint64 {
	jd, err := i.GetJulianDate(instant.TAI)
	if err != nil {
		return 0
	}
	return math.Float64bits(jd)
}

func (m *manager) cacheGet(from, to string, i instant.Instant) (transform.Transform, bool) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	key := cacheKey{from: from, to: to, instantBits: instantBits(i)}
	el, ok := m.cache[key]
	if !ok {
		return transform.Undefined(), false
	}
	m.lru.MoveToFront(el)
	return el.Value.(*cacheEntry).val, true
}

func (m *manager) cachePut(from, to string, i instant.Instant, t transform.Transform) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	key := cacheKey{from: from, to: to, instantBits: instantBits(i)}
	if el, ok := m.cache[key]; ok {
		el.Value.(*cacheEntry).val = t
		m.lru.MoveToFront(el)
		return
	}

	el := m.lru.PushFront(&cacheEntry{key: key, val: t})
	m.cache[key] = el

	inverseKey := cacheKey{from: to, to: from, instantBits: key.instantBits}
	if _, exists := m.cache[inverseKey]; !exists {
		invEl := m.lru.PushFront(&cacheEntry{key: inverseKey, val: t.Inverse()})
		m.cache[inverseKey] = invEl
	}

	for m.lru.Len() > m.capacity {
		oldest := m.lru.Back()
		if oldest == nil {
			break
		}
		m.lru.Remove(oldest)
		delete(m.cache, oldest.Value.(*cacheEntry).key)
	}
}

// SetCacheCapacity bounds the number of transform entries the manager
// retains, evicting least-recently-used entries as needed. Capacities
// below 1 are treated as 1.
func SetCacheCapacity(n int) {
	if n < 1 {
		n = 1
	}
	m := managerInstance()
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	m.capacity = n
	for m.lru.Len() > m.capacity {
		oldest := m.lru.Back()
		if oldest == nil {
			break
		}
		m.lru.Remove(oldest)
		delete(m.cache, oldest.Value.(*cacheEntry).key)
	}
}

// Construct registers a new frame named name, parented under parent (nil
// for a frame tree root), using provider to produce the parent-relative
// transform. It returns astroerr.RegistryConflict if name is already
// registered.
func Construct(name string, quasiInertial bool, parent *Frame, provider Provider) (*Frame, error) {
	m := managerInstance()
	m.registryMu.Lock()
	defer m.registryMu.Unlock()

	if _, exists := m.registry[name]; exists {
		return nil, astroerr.New(astroerr.RegistryConflict, "frame: "+name+" already registered")
	}

	f := &Frame{name: name, quasiInertial: quasiInertial, parent: parent, provider: provider}
	m.registry[name] = f
	return f, nil
}

// Exists reports whether a frame named name is currently registered.
func Exists(name string) bool {
	m := managerInstance()
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()
	_, ok := m.registry[name]
	return ok
}

// Get returns the frame named name, or an astroerr.Undefined error if no
// such frame is registered.
func Get(name string) (*Frame, error) {
	m := managerInstance()
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()
	f, ok := m.registry[name]
	if !ok {
		return nil, astroerr.New(astroerr.Undefined, "frame: "+name+" is not registered")
	}
	return f, nil
}

// Destruct removes a frame from the registry and evicts every cached
// transform naming it, on either side. The cache is keyed on frame name,
// not object identity, so a stale entry left behind here would be served
// to a later frame constructed under the same name with a different
// provider.
func Destruct(name string) {
	m := managerInstance()
	m.registryMu.Lock()
	delete(m.registry, name)
	m.registryMu.Unlock()

	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	for key, el := range m.cache {
		if key.from == name || key.to == name {
			m.lru.Remove(el)
			delete(m.cache, key)
		}
	}
}

// Names returns the names of all currently registered frames, in no
// particular order.
func Names() []string {
	m := managerInstance()
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()
	names := make([]string, 0, len(m.registry))
	for n := range m.registry {
		names = append(names, n)
	}
	return names
}

// Reset clears the entire registry and transform cache. Intended for use
// between independent test cases; well-known frames constructed via
// GCRF(), ITRF(), and friends will be rebuilt lazily on next access.
func Reset() {
	m := managerInstance()
	m.registryMu.Lock()
	m.registry = make(map[string]*Frame)
	m.registryMu.Unlock()

	m.cacheMu.Lock()
	m.cache = make(map[cacheKey]*list.Element)
	m.lru = list.New()
	m.cacheMu.Unlock()

	m.group = singleflight.Group{}
}

// once guarantees a well-known frame's lazy constructor body runs at
// most once even under concurrent first access, resolving the
// "happens-before initialization" race the frame registry would
// otherwise expose for builtins like GCRF.
func (m *manager) once(name string, build func() (*Frame, error)) (*Frame, error) {
	if f, ok := m.lookupLocked(name); ok {
		return f, nil
	}
	v, err, _ := m.group.Do(name, func() (interface{}, error) {
		if f, ok := m.lookupLocked(name); ok {
			return f, nil
		}
		return build()
	})
	if err != nil {
		return nil, err
	}
	return v.(*Frame), nil
}

func (m *manager) lookupLocked(name string) (*Frame, bool) {
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()
	f, ok := m.registry[name]
	return f, ok
}
