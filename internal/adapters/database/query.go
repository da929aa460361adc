package database

import (
	"strings"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// likeEscape is the ESCAPE character used in LIKE patterns; '!' behaves the same on MySQL and SQLite.
const likeEscape = "!"

// containsPattern lower-cased "%term%" pattern with LIKE wildcards escaped.
func containsPattern(term string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// excluding adds an "id NOT IN" filter when ids is non-empty.
func excluding(q *gorm.DB, ids []string) *gorm.DB {
	if len(ids) == 0 {
		return q
	}
	return q.Where("id NOT IN ?", ids)
}

// validID rejects ids that can never match a char(36) primary key.
func validID(id string) bool {
	_, err := uuid.FromString(id)
	return err == nil
}
