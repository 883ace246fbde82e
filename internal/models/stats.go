package models

// PublicStats are the headline counts shown to everyone.
type PublicStats struct {
	Trails    int64 `json:"trails"`
	Campsites int64 `json:"campsites"`
	Scouts    int64 `json:"scouts"`
}

// AdminStats summarize the moderation workload.
type AdminStats struct {
	Hikes                int64 `json:"hikes"`
	CampingSites         int64 `json:"camping_sites"`
	PendingHikes         int64 `json:"pending_hikes"`
	PendingCampingSites  int64 `json:"pending_camping_sites"`
	FeaturedHikes        int64 `json:"featured_hikes"`
	FeaturedCampingSites int64 `json:"featured_camping_sites"`
	PendingAlterations   int64 `json:"pending_alterations"`
	Users                int64 `json:"users"`
}
