package rooms

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/housesketch/pkg/site"
)

func relClose(a, b float64) bool {
	if b == 0 {
		return math.Abs(a) < 1e-12
	}
	return math.Abs(a-b)/math.Abs(b) <= 1e-6
}

func TestBaseSharesSumToOne(t *testing.T) {
	var sum float64
	for _, s := range baseShares {
		sum += s.value
	}
	if !relClose(sum, 1.0) {
		t.Errorf("base shares sum to %v, want 1.0", sum)
	}
	if len(baseShares) != 11 {
		t.Errorf("catalogue has %d rooms, want 11", len(baseShares))
	}
}

func TestCirculationIsLargestShare(t *testing.T) {
	raw := Shares(site.NewFeatureSet())
	for name, v := range raw {
		if name != Circulation && v >= raw[Circulation] {
			t.Errorf("%s share %v should be below circulation %v", name, v, raw[Circulation])
		}
	}
	if raw[Circulation] != 0.17 {
		t.Errorf("circulation share = %v, want 0.17", raw[Circulation])
	}
}

func TestEstimateIsDeterministic(t *testing.T) {
	fs := site.NewFeatureSet(site.Garden, site.Pool, site.Fence)
	a := Estimate(134.5, 3, fs)
	b := Estimate(134.5, 3, site.NewFeatureSet(site.Fence, site.Pool, site.Garden))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Estimate not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestEstimateNormalization(t *testing.T) {
	featureSets := []site.FeatureSet{
		site.NewFeatureSet(),
		site.NewFeatureSet(site.Pool),
		site.NewFeatureSet(site.Garden),
		site.NewFeatureSet(site.Garden, site.Pool),
		site.NewFeatureSet(site.IndoorToilet, site.Parking),
		site.NewFeatureSet(site.AllFeatures...),
	}

	for _, fs := range featureSets {
		for _, area := range []float64{1, 42.7, 134, 999.9} {
			for floors := 1; floors <= 10; floors++ {
				a := Estimate(area, floors, fs)
				want := area * float64(floors) * NetAreaRatio
				if !relClose(a.Total(), want) {
					t.Errorf("%s area=%v floors=%d: total %v, want %v", fs, area, floors, a.Total(), want)
				}
				var shareSum float64
				for _, r := range a.Rooms {
					shareSum += r.Share
				}
				if !relClose(shareSum, 1.0) {
					t.Errorf("%s: normalized shares sum to %v", fs, shareSum)
				}
			}
		}
	}
}

func TestScenarioCirculationShare(t *testing.T) {
	fs := site.NewFeatureSet(site.Garden, site.Parking)
	a := Estimate(134, 2, fs)

	sum := 1.0 + 2*AmenityBonus
	if !relClose(a.ShareSum, sum) {
		t.Fatalf("ShareSum = %v, want %v", a.ShareSum, sum)
	}
	want := 0.17 / sum * a.NetArea
	if !relClose(a.Area(Circulation), want) {
		t.Errorf("circulation = %v, want %v", a.Area(Circulation), want)
	}
}

func TestScenarioPoolBonus(t *testing.T) {
	base := site.NewFeatureSet(site.Parking, site.Fence)
	without := Shares(base)
	with := Shares(base.Add(site.Pool))

	for name := range without {
		diff := with[name] - without[name]
		switch name {
		case LivingRoom, RelaxationRoom:
			if !relClose(diff, AmenityBonus) {
				t.Errorf("%s: pool added %v, want %v", name, diff, AmenityBonus)
			}
		default:
			if diff != 0 {
				t.Errorf("%s: pool changed share by %v", name, diff)
			}
		}
	}
}

func TestPoolAndGardenBonusAppliedOnce(t *testing.T) {
	both := Shares(site.NewFeatureSet(site.Pool, site.Garden))
	one := Shares(site.NewFeatureSet(site.Pool))
	if both[LivingRoom] != one[LivingRoom] {
		t.Errorf("bonus stacked: %v vs %v", both[LivingRoom], one[LivingRoom])
	}
}

func TestEstimateDegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		area   float64
		floors int
	}{
		{"zero area", 0, 2},
		{"negative area", -10, 2},
		{"zero floors", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Estimate(tt.area, tt.floors, site.NewFeatureSet())
			if a.NetArea != 0 || a.Total() != 0 {
				t.Errorf("expected zero allocation, got net=%v total=%v", a.NetArea, a.Total())
			}
			if len(a.Rooms) != 11 {
				t.Errorf("got %d rooms, want 11", len(a.Rooms))
			}
		})
	}
}

func TestAllocationMap(t *testing.T) {
	a := Estimate(100, 1, site.NewFeatureSet())
	m := a.Map()
	if len(m) != len(Catalogue()) {
		t.Fatalf("Map has %d entries, want %d", len(m), len(Catalogue()))
	}
	if !relClose(m[Kitchen], 100*NetAreaRatio*0.09) {
		t.Errorf("kitchen = %v", m[Kitchen])
	}
	if a.Area("ballroom") != 0 {
		t.Error("unknown room should have zero area")
	}
}
