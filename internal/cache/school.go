package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

// SchoolLocations is a read-through cache of school id to resolved location.
// Entries expire after ttl, which bounds how stale a campaign's joined location can be.
type SchoolLocations struct {
	lru *expirable.LRU[string, models.SchoolLocation]
}

func NewSchoolLocations(size int, ttl time.Duration) *SchoolLocations {
	if size <= 0 {
		size = 1024
	}
	return &SchoolLocations{lru: expirable.NewLRU[string, models.SchoolLocation](size, nil, ttl)}
}

func (c *SchoolLocations) Get(schoolID string) (models.SchoolLocation, bool) {
	return c.lru.Get(schoolID)
}

func (c *SchoolLocations) Add(schoolID string, loc models.SchoolLocation) {
	c.lru.Add(schoolID, loc)
}

// Invalidate drops a school so the next read goes back to the store.
func (c *SchoolLocations) Invalidate(schoolID string) {
	c.lru.Remove(schoolID)
}

func (c *SchoolLocations) Len() int {
	return c.lru.Len()
}
