package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/housesketch/pkg/rooms"
	"github.com/matzehuels/housesketch/pkg/site"
)

const (
	roomsSheet = "Rooms"
	siteSheet  = "Site"
)

// RenderSchedule writes an XLSX workbook with the room area schedule and the
// site zones of a layout. Zone coordinates are meters from the lot's top-left
// corner.
func RenderSchedule(l site.Layout, a rooms.Allocation) (data []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", roomsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(siteSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"424242"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeRooms(f, l, a, headerStyle, numberStyle, percentStyle); err != nil {
		return nil, err
	}
	if err := writeSite(f, l, headerStyle, numberStyle); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRooms(f *excelize.File, l site.Layout, a rooms.Allocation, header, number, percent int) error {
	rows := [][]any{
		{"Lot", LotLabel(l.Lot)},
		{"Floors", l.Lot.Floors},
		{"Footprint (m²)", l.Footprint.AreaM2},
		{"Net usable area (m²)", a.NetArea},
		{},
		{"Room", "Share", "Area (m²)"},
	}
	for _, r := range a.Rooms {
		rows = append(rows, []any{r.Name, r.Share, r.Area})
	}
	rows = append(rows, []any{"Total", 1.0, a.Total()})

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(roomsSheet, cell, &row); err != nil {
			return fmt.Errorf("write rooms row %d: %w", i+1, err)
		}
	}

	const headerRow = 6
	first := headerRow + 1
	last := len(rows)
	steps := []struct {
		start, end string
		style      int
	}{
		{"A6", "C6", header},
		{fmt.Sprintf("B%d", first), fmt.Sprintf("B%d", last), percent},
		{fmt.Sprintf("C%d", first), fmt.Sprintf("C%d", last), number},
		{"B3", "B4", number},
	}
	for _, s := range steps {
		if err := f.SetCellStyle(roomsSheet, s.start, s.end, s.style); err != nil {
			return fmt.Errorf("style rooms: %w", err)
		}
	}
	if err := f.SetColWidth(roomsSheet, "A", "A", 32); err != nil {
		return err
	}
	return f.SetColWidth(roomsSheet, "B", "C", 14)
}

func writeSite(f *excelize.File, l site.Layout, header, number int) error {
	rows := [][]any{{"Zone", "Label", "X (m)", "Y (m)", "Width (m)", "Height (m)", "Area (m²)"}}
	for _, z := range l.Zones {
		local := z.Rect
		local.X -= l.LotRect.X
		local.Y -= l.LotRect.Y
		m := local.Div(l.Scale)
		rows = append(rows, []any{string(z.Category), z.Label, m.X, m.Y, m.W, m.H, m.Area()})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(siteSheet, cell, &row); err != nil {
			return fmt.Errorf("write site row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(siteSheet, "A1", "G1", header); err != nil {
		return fmt.Errorf("style site: %w", err)
	}
	if len(rows) > 1 {
		if err := f.SetCellStyle(siteSheet, "C2", fmt.Sprintf("G%d", len(rows)), number); err != nil {
			return fmt.Errorf("style site: %w", err)
		}
	}
	return f.SetColWidth(siteSheet, "A", "G", 14)
}
