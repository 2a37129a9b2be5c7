package notion

import (
	"strings"

	"github.com/fwojciec/lessondump"
)

// FallbackType names the database used when no other type matches.
const FallbackType = "other"

// Database is a destination database and the record type it collects.
type Database struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
}

// Route picks the database for rec. The exercise type is tried before the
// content type, first exactly, then by shared words, so "multiple choice"
// collects "multiple-choice" records. A database typed FallbackType takes
// everything else. ok is false when nothing matches.
func Route(databases []Database, rec *lessondump.ContentRecord) (id string, ok bool) {
	types := []string{normalizeType(string(rec.ExerciseType)), normalizeType(string(rec.ContentType))}

	for _, t := range types {
		for _, db := range databases {
			if db.ID != "" && t != "" && normalizeType(db.Type) == t {
				return db.ID, true
			}
		}
	}
	for _, t := range types {
		for _, db := range databases {
			if db.ID != "" && t != "" && sharesWord(normalizeType(db.Type), t) {
				return db.ID, true
			}
		}
	}
	for _, db := range databases {
		if db.ID != "" && normalizeType(db.Type) == FallbackType {
			return db.ID, true
		}
	}
	return "", false
}

func normalizeType(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

func sharesWord(a, b string) bool {
	for _, wa := range strings.Fields(a) {
		for _, wb := range strings.Fields(b) {
			if wa == wb {
				return true
			}
		}
	}
	return false
}
