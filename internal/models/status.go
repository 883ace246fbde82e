package models

// Review status constants shared by entities, queue entries and alterations.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Entity kind constants. The values match the entity_type column.
const (
	KindHike        = "hike"
	KindCampingSite = "camping_site"
)

// IsDecision reports whether status is a terminal review decision.
func IsDecision(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// IsValidStatus reports whether status is one of the three review states.
func IsValidStatus(status string) bool {
	return status == StatusPending || IsDecision(status)
}

// IsValidKind reports whether kind names a moderated entity.
func IsValidKind(kind string) bool {
	return kind == KindHike || kind == KindCampingSite
}
