package view

import "sync"

// Source names the collection a container currently shows.
type Source string

const (
	SourceNone     Source = ""
	SourceClasses  Source = "classes"
	SourceGyms     Source = "gyms"
	SourceBookings Source = "bookings"
)

// Container is the single shared content pane. Replacing its contents swaps
// everything at once; the latest started load wins.
type Container struct {
	mu        sync.Mutex
	source    Source
	fragments []Fragment
	latest    uint64
}

// Begin starts a load and returns its generation. Any load begun earlier
// becomes stale.
func (c *Container) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	return c.latest
}

// Commit replaces the contents if gen is still the latest generation.
// It reports whether the contents were replaced.
func (c *Container) Commit(gen uint64, src Source, frags []Fragment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.latest {
		return false
	}
	c.source = src
	c.fragments = frags
	return true
}

// Current reports whether gen is the latest generation.
func (c *Container) Current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.latest
}

// Fragments returns a copy of the current contents.
func (c *Container) Fragments() []Fragment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Fragment, len(c.fragments))
	copy(out, c.fragments)
	return out
}

func (c *Container) Source() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Reset empties the container and invalidates every pending load.
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	c.source = SourceNone
	c.fragments = nil
}
