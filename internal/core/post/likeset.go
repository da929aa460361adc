package post

// LikeSet user IDs that liked a post. Stored as a list, but every write goes through
// Add/Remove/Toggle so no ID is ever present twice.
type LikeSet []string

func (s LikeSet) Has(userID string) bool {
	for _, id := range s {
		if id == userID {
			return true
		}
	}
	return false
}

// Add inserts userID if absent.
func (s *LikeSet) Add(userID string) bool {
	if s.Has(userID) {
		return false
	}
	*s = append(*s, userID)
	return true
}

// Remove deletes every occurrence of userID, which also repairs rows written
// before dedup was enforced.
func (s *LikeSet) Remove(userID string) bool {
	out := make(LikeSet, 0, len(*s))
	removed := false
	for _, id := range *s {
		if id == userID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	*s = out
	return removed
}

// Toggle removes userID when present, adds it otherwise. Returns true when now liked.
func (s *LikeSet) Toggle(userID string) bool {
	if s.Remove(userID) {
		return false
	}
	*s = append(*s, userID)
	return true
}
