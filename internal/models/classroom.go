package models

import "time"

// Classroom represents a bookable room.
type Classroom struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Building     string    `db:"building" json:"building"`
	Capacity     int       `db:"capacity" json:"capacity"`
	HasProjector bool      `db:"has_projector" json:"has_projector"`
	HasAC        bool      `db:"has_ac" json:"has_ac"`
	IsAvailable  bool      `db:"is_available" json:"is_available"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ClassroomFilter captures filtering options for listing classrooms.
type ClassroomFilter struct {
	Building  string
	Available *bool
	Page      int
	PageSize  int
}
