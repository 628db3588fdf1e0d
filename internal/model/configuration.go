package model

import "fmt"

// Configuration is the persisted root document: every cleaner profile in
// display order.
type Configuration struct {
	Cleaners []Cleaner `json:"cleaners"`
}

// NewConfiguration returns an empty configuration.
func NewConfiguration() *Configuration {
	return &Configuration{Cleaners: []Cleaner{}}
}

// Clone returns a deep copy of the configuration.
func (c *Configuration) Clone() *Configuration {
	out := &Configuration{Cleaners: make([]Cleaner, 0, len(c.Cleaners))}
	for _, cl := range c.Cleaners {
		out.Cleaners = append(out.Cleaners, cl.Clone())
	}

	return out
}

// IndexOf returns the position of the cleaner with id, or -1.
func (c *Configuration) IndexOf(id int) int {
	for i, cl := range c.Cleaners {
		if cl.ID == id {
			return i
		}
	}

	return -1
}

// NextID returns max(existing ids) + 1, or 1 for an empty collection.
func (c *Configuration) NextID() int {
	next := 1
	for _, cl := range c.Cleaners {
		if cl.ID >= next {
			next = cl.ID + 1
		}
	}

	return next
}

// Normalize replaces a null cleaner list with an empty one and checks that
// ids are unique.
func (c *Configuration) Normalize() error {
	if c.Cleaners == nil {
		c.Cleaners = []Cleaner{}
	}

	seen := make(map[int]struct{}, len(c.Cleaners))
	for _, cl := range c.Cleaners {
		if _, ok := seen[cl.ID]; ok {
			return fmt.Errorf("duplicate cleaner id %d", cl.ID)
		}

		seen[cl.ID] = struct{}{}
	}

	return nil
}
