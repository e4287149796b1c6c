// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultMenuCategories is used when a store has not configured its own
// category labels. The part after "|" is a display subtitle.
var DefaultMenuCategories = []string{
	"LUNCH|ランチ",
	"BOWL / NOODLES|丼・麺",
	"SIDE DISH|小鉢",
	"DESSERT / SALAD|デザート / サラダ",
}

// DefaultBusinessDays is Monday through Friday.
var DefaultBusinessDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// Store is a restaurant profile. Menu records are scoped to a store; this
// module only reads its category and business-day settings.
type Store struct {
	ID              uuid.UUID      `json:"id"`
	Slug            string         `json:"store_id"`
	Name            string         `json:"name"`
	ProfileImageURL *string        `json:"profile_image_url,omitempty"`
	MenuCategories  []string       `json:"menu_categories"`
	BusinessDays    []time.Weekday `json:"business_days"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Categories returns the store's category labels in display order, falling
// back to DefaultMenuCategories when none are configured.
func (s *Store) Categories() []string {
	if len(s.MenuCategories) == 0 {
		return slices.Clone(DefaultMenuCategories)
	}
	return slices.Clone(s.MenuCategories)
}

// OpenDays returns the store's business days sorted Sunday-first, falling
// back to DefaultBusinessDays when none are configured. Duplicates and
// out-of-range values are dropped.
func (s *Store) OpenDays() []time.Weekday {
	if len(s.BusinessDays) == 0 {
		return slices.Clone(DefaultBusinessDays)
	}
	days := make([]time.Weekday, 0, len(s.BusinessDays))
	for _, d := range s.BusinessDays {
		if d < time.Sunday || d > time.Saturday || slices.Contains(days, d) {
			continue
		}
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}
