package cache

import (
	"sync"

	"github.com/scorelect/drillboard/pkg/core"
)

// Documents caches documents after they are loaded or saved to avoid
// subsequent database reads. Entries are copies; callers get their own clone.
type Documents struct {
	m    sync.Mutex
	docs map[string]*core.Document
}

func NewDocuments() *Documents {
	return &Documents{docs: make(map[string]*core.Document)}
}

func (c *Documents) Get(id string) (*core.Document, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if d, ok := c.docs[id]; ok {
		return d.Clone(), true
	}
	return nil, false
}

func (c *Documents) Set(doc *core.Document) {
	c.m.Lock()
	defer c.m.Unlock()
	c.docs[doc.ID] = doc.Clone()
}

func (c *Documents) Delete(id string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.docs, id)
}

func (c *Documents) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.docs = make(map[string]*core.Document)
}
