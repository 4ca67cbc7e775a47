package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/Fuatnow/planets-3d/internal/handles"
)

// Frame is every sample recorded at one time.
type Frame struct {
	Time    float64
	Samples []Sample
}

// Frames groups samples written by Save back into snapshots.
func Frames(samples []Sample) []Frame {
	var frames []Frame
	for _, smp := range samples {
		if n := len(frames); n == 0 || frames[n-1].Time != smp.Time {
			frames = append(frames, Frame{Time: smp.Time})
		}
		f := &frames[len(frames)-1]
		f.Samples = append(f.Samples, smp)
	}
	return frames
}

type BodyTrack struct {
	Key        handles.Key  `json:"key"`
	Mass       float64      `json:"mass"`
	Times      []float64    `json:"times"`
	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`
}

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Times  []float64   `json:"times"`
	Bodies []BodyTrack `json:"bodies"`
}

// ExportJSON writes the run metadata and one track per body.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []Sample) error {
	data := ExportData{Run: *meta, Times: []float64{}, Bodies: []BodyTrack{}}
	for _, f := range Frames(samples) {
		data.Times = append(data.Times, f.Time)
	}

	keys, tracks := Tracks(samples)
	for _, k := range keys {
		tr := BodyTrack{Key: k}
		for _, smp := range tracks[k] {
			tr.Mass = smp.Mass
			tr.Times = append(tr.Times, smp.Time)
			tr.Positions = append(tr.Positions, smp.Position)
			tr.Velocities = append(tr.Velocities, smp.Velocity)
		}
		data.Bodies = append(data.Bodies, tr)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes one row per recorded time and x, y, z columns per body.
// Cells of bodies absent at a time are empty.
func ExportCSV(w io.Writer, samples []Sample) error {
	keys, _ := Tracks(samples)
	column := make(map[handles.Key]int, len(keys))

	cw := csv.NewWriter(w)
	header := []string{"time"}
	for i, k := range keys {
		column[k] = 1 + 3*i
		id := strconv.FormatUint(uint64(k), 10)
		header = append(header, "x_"+id, "y_"+id, "z_"+id)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range Frames(samples) {
		row := make([]string, len(header))
		row[0] = formatFloat(f.Time)
		for _, smp := range f.Samples {
			c := column[smp.Key]
			row[c] = formatFloat(smp.Position.X())
			row[c+1] = formatFloat(smp.Position.Y())
			row[c+2] = formatFloat(smp.Position.Z())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
