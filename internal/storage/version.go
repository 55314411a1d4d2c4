package storage

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ritual-tui/ritual/internal/models"
)

// Version is a schema version "major.minor.patch".
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a version string like "1.2.3" or "v1.2.3".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(s, "v")
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// LessThan returns true if v < other.
func (v Version) LessThan(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// checkVersion warns when a document comes from a newer schema. The document
// is still used; unknown fields are dropped on the next save.
func checkVersion(s *models.Schema) {
	current, err := ParseVersion(models.SchemaVersion)
	if err != nil {
		return
	}
	got, err := ParseVersion(s.Version)
	if err != nil {
		slog.Warn("unreadable schema version", "version", s.Version)
		return
	}
	if current.LessThan(got) {
		slog.Warn("data written by a newer version", "version", got.String(), "supported", current.String())
	}
}
