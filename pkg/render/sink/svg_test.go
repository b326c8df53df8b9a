package sink

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/matzehuels/housesketch/pkg/site"
)

var (
	roomRectRe  = regexp.MustCompile(`<rect class="zone-room"`)
	labelTextRe = regexp.MustCompile(`<text class="label"[^>]*>([^<]*)</text>`)
)

func labelsIn(svg []byte) []string {
	var out []string
	for _, m := range labelTextRe.FindAllSubmatch(svg, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

func TestRenderFloorPlanSixLabels(t *testing.T) {
	fp := site.Rect{X: 20, Y: 104, W: 280, H: 375}
	svg := RenderFloorPlan(fp, GroundFloorRooms(), "Floor 1 (ground)")

	if n := len(roomRectRe.FindAll(svg, -1)); n != GridCells {
		t.Errorf("room rects = %d, want %d", n, GridCells)
	}
	got := labelsIn(svg)
	if len(got) != 6 {
		t.Fatalf("labels = %v, want 6", got)
	}
	for i, want := range GroundFloorRooms() {
		if got[i] != want {
			t.Errorf("label %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestRenderFloorPlanDropsExtraLabels(t *testing.T) {
	fp := site.Rect{X: 0, Y: 0, W: 300, H: 300}
	labels := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	svg := RenderFloorPlan(fp, labels, "Floor 2")

	if n := len(roomRectRe.FindAll(svg, -1)); n != GridCells {
		t.Errorf("room rects = %d, want %d", n, GridCells)
	}
	got := labelsIn(svg)
	if strings.Join(got, "") != "ABCDEF" {
		t.Errorf("labels = %v, want first six", got)
	}
}

func TestRenderFloorPlanFewerLabels(t *testing.T) {
	fp := site.Rect{X: 0, Y: 0, W: 300, H: 300}
	svg := RenderFloorPlan(fp, []string{"Kitchen", "Stairs"}, "Floor 1 (ground)")

	if n := len(roomRectRe.FindAll(svg, -1)); n != GridCells {
		t.Errorf("room rects = %d, want %d", n, GridCells)
	}
	if got := labelsIn(svg); len(got) != 2 {
		t.Errorf("labels = %v, want 2", got)
	}
}

func TestRenderFloorPlanSize(t *testing.T) {
	fp := site.Rect{X: 123, Y: 456, W: 200, H: 100}
	svg := RenderFloorPlan(fp, nil, "Floor 1 (ground)")
	want := `width="240" height="168"`
	if !bytes.Contains(svg, []byte(want)) {
		t.Errorf("floor plan should be sized to the footprint plus padding, missing %s", want)
	}
	if !bytes.Contains(svg, []byte(`<text class="title"`)) {
		t.Error("missing title")
	}
}

func TestRenderSitePlan(t *testing.T) {
	lot := site.Lot{Width: 10, Length: 20, Floors: 2}
	l := site.ComputeLayout(lot, site.NewFeatureSet(site.AllFeatures...))
	svg := RenderSitePlan(l.Zones, l.CanvasWidth, l.CanvasHeight, WithLotLabel(lot))

	if !bytes.HasPrefix(svg, []byte("<svg ")) {
		t.Errorf("SVG should start with <svg (no prolog), got %q", svg[:min(20, len(svg))])
	}
	if !bytes.Contains(svg, []byte("<style>")) {
		t.Error("missing embedded style sheet")
	}
	for _, z := range l.Zones {
		if !bytes.Contains(svg, []byte(`class="zone-`+string(z.Category)+`"`)) {
			t.Errorf("missing shape for %s", z.Category)
		}
	}
	if !bytes.Contains(svg, []byte("Lot 10.00 m × 20.00 m (200.0 m²)")) {
		t.Error("missing lot label")
	}
	if !bytes.HasSuffix(svg, []byte("</svg>\n")) {
		t.Error("SVG not closed")
	}
}

func TestRenderSitePlanPaintsFenceLast(t *testing.T) {
	l := site.ComputeLayout(site.Lot{Width: 10, Length: 20, Floors: 1}, site.NewFeatureSet(site.Fence, site.Garden, site.Pool))
	svg := string(RenderSitePlan(l.Zones, l.CanvasWidth, l.CanvasHeight))

	fence := strings.Index(svg, `<rect class="zone-fence"`)
	if fence < 0 {
		t.Fatal("missing fence outline")
	}
	for _, c := range []site.Category{site.CategoryLot, site.CategoryGarden, site.CategoryHouse, site.CategoryPool} {
		if i := strings.Index(svg, `<rect class="zone-`+string(c)+`"`); i < 0 || i > fence {
			t.Errorf("%s should be painted before the fence", c)
		}
	}
}

func TestRenderSitePlanCaptions(t *testing.T) {
	l := site.ComputeLayout(site.Lot{Width: 10, Length: 20, Floors: 1}, site.NewFeatureSet(site.Garden, site.Fence))

	with := labelsIn(RenderSitePlan(l.Zones, l.CanvasWidth, l.CanvasHeight))
	if strings.Join(with, ",") != "Garden,House" {
		t.Errorf("captions = %v, want Garden,House", with)
	}

	without := labelsIn(RenderSitePlan(l.Zones, l.CanvasWidth, l.CanvasHeight, WithoutCaptions()))
	if len(without) != 0 {
		t.Errorf("captions = %v, want none", without)
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	d := Drawing{
		Width: 100, Height: 100, Title: "A & B",
		Zones: []site.Zone{{Category: site.CategoryRoom, Label: "<Study>", Rect: site.Rect{W: 100, H: 100}}},
	}
	svg := string(RenderSVG(d))
	if strings.Contains(svg, "<Study>") || !strings.Contains(svg, "&lt;Study&gt;") {
		t.Error("room label not escaped")
	}
	if !strings.Contains(svg, "A &amp; B") {
		t.Error("title not escaped")
	}
}

func TestRenderSVGDegenerateCanvas(t *testing.T) {
	l := site.ComputeLayout(site.Lot{}, site.NewFeatureSet())
	svg := RenderSVG(SiteDrawing(l))
	if !bytes.Contains(svg, []byte("<svg ")) {
		t.Error("expected SVG output for a degenerate lot")
	}
}
