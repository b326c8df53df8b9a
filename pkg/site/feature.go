package site

import (
	"fmt"
	"slices"
	"strings"
)

// Feature is a user-selectable amenity that alters the layout or the room
// area shares.
type Feature string

// The fixed feature vocabulary.
const (
	Garden        Feature = "garden"
	Pool          Feature = "pool"
	IndoorToilet  Feature = "indoor-toilet"
	OutdoorToilet Feature = "outdoor-toilet"
	LivingRoom    Feature = "living-room"
	Parking       Feature = "parking"
	Fence         Feature = "fence"
)

// AllFeatures lists the vocabulary in canonical order.
var AllFeatures = []Feature{Garden, Pool, IndoorToilet, OutdoorToilet, LivingRoom, Parking, Fence}

var featureLabels = map[Feature]string{
	Garden:        "front yard garden",
	Pool:          "swimming pool",
	IndoorToilet:  "indoor toilet",
	OutdoorToilet: "outdoor toilet",
	LivingRoom:    "living room",
	Parking:       "parking area",
	Fence:         "perimeter fence",
}

// Label returns a human-readable description of the feature.
func (f Feature) Label() string {
	if l, ok := featureLabels[f]; ok {
		return l
	}
	return string(f)
}

// Valid reports whether f belongs to the vocabulary.
func (f Feature) Valid() bool {
	_, ok := featureLabels[f]
	return ok
}

// FeatureSet is an unordered set of features. The zero value is an empty set
// ready to use for reads; use [NewFeatureSet] or [FeatureSet.Add] to build one.
type FeatureSet struct {
	m map[Feature]struct{}
}

// NewFeatureSet returns a set containing fs.
func NewFeatureSet(fs ...Feature) FeatureSet {
	s := FeatureSet{m: make(map[Feature]struct{}, len(fs))}
	for _, f := range fs {
		s.m[f] = struct{}{}
	}
	return s
}

// ParseFeatures builds a set from user-supplied tags. Tags are matched
// case-insensitively and underscores or spaces are treated as hyphens, so
// "Indoor_Toilet" and "indoor toilet" both mean [IndoorToilet]. Empty tags are
// ignored. Unknown tags produce an error naming the first offender.
func ParseFeatures(tags []string) (FeatureSet, error) {
	s := NewFeatureSet()
	for _, raw := range tags {
		tag := NormalizeTag(raw)
		if tag == "" {
			continue
		}
		f := Feature(tag)
		if !f.Valid() {
			return FeatureSet{}, fmt.Errorf("unknown feature %q", raw)
		}
		s.m[f] = struct{}{}
	}
	return s, nil
}

// NormalizeTag lowercases a tag and converts underscores and inner spaces to
// hyphens.
func NormalizeTag(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("_", "-", " ", "-").Replace(t)
}

// Has reports whether f is in the set.
func (s FeatureSet) Has(f Feature) bool {
	_, ok := s.m[f]
	return ok
}

// Add returns a copy of s with fs added. The receiver is not modified.
func (s FeatureSet) Add(fs ...Feature) FeatureSet {
	out := NewFeatureSet(s.List()...)
	for _, f := range fs {
		out.m[f] = struct{}{}
	}
	return out
}

// Len returns the number of features in the set.
func (s FeatureSet) Len() int { return len(s.m) }

// List returns the features in canonical vocabulary order.
func (s FeatureSet) List() []Feature {
	out := make([]Feature, 0, len(s.m))
	for _, f := range AllFeatures {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Strings returns the feature tags in canonical order.
func (s FeatureSet) Strings() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = string(f)
	}
	return out
}

// String joins the tags with commas.
func (s FeatureSet) String() string { return strings.Join(s.Strings(), ",") }

// Equal reports whether both sets hold the same features.
func (s FeatureSet) Equal(o FeatureSet) bool {
	return slices.Equal(s.List(), o.List())
}
