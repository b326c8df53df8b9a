// Package rooms estimates how the usable floor area of a house splits into
// rooms.
//
// The estimate starts from the footprint area, removes a fixed 15% for walls
// and shell losses, multiplies by the floor count, and hands out the result
// by fixed proportional shares. Outdoor amenities (pool or garden) enlarge
// the living and relaxation shares before the shares are renormalized to 1.
//
// [Estimate] is a pure function: identical inputs always produce identical
// outputs.
package rooms

import "github.com/matzehuels/housesketch/pkg/site"

// NetAreaRatio is the fraction of the footprint that counts as usable floor
// area on each floor.
const NetAreaRatio = 0.85

// AmenityBonus is added to the living and relaxation shares when the lot has
// a pool or a garden.
const AmenityBonus = 0.02

// Room names in catalogue order.
const (
	LivingRoom     = "family/living room"
	MasterBedroom  = "master bedroom"
	Bedroom        = "bedroom"
	Kitchen        = "kitchen"
	DiningRoom     = "dining room"
	Bathroom       = "bathroom"
	RelaxationRoom = "relaxation room"
	Study          = "study"
	Storage        = "storage"
	Laundry        = "laundry/utility"
	Circulation    = "circulation (corridor/stairs)"
)

type share struct {
	name  string
	value float64
}

// baseShares sum to 1.0.
var baseShares = []share{
	{LivingRoom, 0.16},
	{MasterBedroom, 0.14},
	{Bedroom, 0.10},
	{Kitchen, 0.09},
	{DiningRoom, 0.08},
	{Bathroom, 0.06},
	{RelaxationRoom, 0.06},
	{Study, 0.05},
	{Storage, 0.05},
	{Laundry, 0.04},
	{Circulation, 0.17},
}

// Catalogue returns the room names in the order estimates are reported.
func Catalogue() []string {
	out := make([]string, len(baseShares))
	for i, s := range baseShares {
		out[i] = s.name
	}
	return out
}

// RoomArea is one line of an [Allocation].
type RoomArea struct {
	Name  string  `json:"name"`
	Share float64 `json:"share"`
	Area  float64 `json:"area_m2"`
}

// Allocation is the result of [Estimate].
type Allocation struct {
	Rooms    []RoomArea `json:"rooms"`
	NetArea  float64    `json:"net_area_m2"`
	ShareSum float64    `json:"share_sum"`
}

// Area returns the estimated area of the named room, or 0 if unknown.
func (a Allocation) Area(name string) float64 {
	for _, r := range a.Rooms {
		if r.Name == name {
			return r.Area
		}
	}
	return 0
}

// Map returns the allocation as a name → area mapping.
func (a Allocation) Map() map[string]float64 {
	m := make(map[string]float64, len(a.Rooms))
	for _, r := range a.Rooms {
		m[r.Name] = r.Area
	}
	return m
}

// Total sums all room areas. It equals NetArea up to rounding.
func (a Allocation) Total() float64 {
	var t float64
	for _, r := range a.Rooms {
		t += r.Area
	}
	return t
}

// Shares returns the raw, not yet normalized share of each room for the
// given features.
func Shares(features site.FeatureSet) map[string]float64 {
	m := make(map[string]float64, len(baseShares))
	for _, s := range baseShares {
		m[s.name] = s.value
	}
	if features.Has(site.Pool) || features.Has(site.Garden) {
		m[LivingRoom] += AmenityBonus
		m[RelaxationRoom] += AmenityBonus
	}
	return m
}

// Estimate distributes the net usable area of a house with the given
// footprint and floor count across the room catalogue. Non-positive areas or
// floor counts produce an allocation of zeros.
func Estimate(footprintM2 float64, floors int, features site.FeatureSet) Allocation {
	net := 0.0
	if footprintM2 > 0 && floors > 0 {
		net = footprintM2 * NetAreaRatio * float64(floors)
	}

	raw := Shares(features)
	var sum float64
	for _, s := range baseShares {
		sum += raw[s.name]
	}

	rooms := make([]RoomArea, len(baseShares))
	for i, s := range baseShares {
		normalized := raw[s.name] / sum
		rooms[i] = RoomArea{Name: s.name, Share: normalized, Area: normalized * net}
	}
	return Allocation{Rooms: rooms, NetArea: net, ShareSum: sum}
}
