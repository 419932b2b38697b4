package cache

import (
	"image"
	"sync"
)

// Handles maps a handle key (object type, plus subtype or style) to the
// resolved image drawn for it.
type Handles struct {
	mu      sync.RWMutex
	handles map[string]image.Image
}

// NewHandles creates a new Handles cache
func NewHandles() *Handles {
	return &Handles{
		handles: make(map[string]image.Image),
	}
}

// Get retrieves an image by key
func (c *Handles) Get(key string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.handles[key]
	return img, ok
}

// Set stores an image by key
func (c *Handles) Set(key string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles[key] = img
}

// GetOrCreate returns the cached image for key, building and storing it with
// create on a miss. A nil image from create is not stored.
func (c *Handles) GetOrCreate(key string, create func() image.Image) image.Image {
	if img, ok := c.Get(key); ok {
		return img
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.handles[key]; ok {
		return img
	}
	img := create()
	if img != nil {
		c.handles[key] = img
	}
	return img
}

// Delete removes an image by key
func (c *Handles) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handles, key)
}

// Len returns the number of cached images
func (c *Handles) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

// Reset clears all images from the cache
func (c *Handles) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles = make(map[string]image.Image)
}
