package port

// Cache is a bounded key-value cache. Implementations are safe for
// concurrent use.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	// GetOrCreate returns the cached value, building it with create on a miss.
	GetOrCreate(key K, create func(K) V) V
	Len() int
}
