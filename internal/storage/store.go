package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/go-gl/mathgl/mgl64"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        uint64             `json:"seed"`
	FrameDelay  int64              `json:"frame_delay_us"`
	Frames      int                `json:"frames"`
	Integrator  string             `json:"integrator"`
	Solver      string             `json:"solver"`
	Bodies      int                `json:"bodies"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Sample is one body at one recorded time.
type Sample struct {
	Time     float64
	Key      handles.Key
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
}

var header = []string{"time", "key", "x", "y", "z", "vx", "vy", "vz", "mass"}

// Save writes a run directory holding metadata.json and states.csv, one
// row per body per snapshot, and returns the run ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.Frames
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	if len(result.Snapshots) > 0 {
		meta.Bodies = len(result.Snapshots[0].Bodies)
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, snap := range result.Snapshots {
		for _, b := range snap.Bodies {
			row := []string{
				formatFloat(snap.Time),
				strconv.FormatUint(uint64(b.Key), 10),
				formatFloat(b.Position.X()),
				formatFloat(b.Position.Y()),
				formatFloat(b.Position.Z()),
				formatFloat(b.Velocity.X()),
				formatFloat(b.Velocity.Y()),
				formatFloat(b.Velocity.Z()),
				formatFloat(b.Mass),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// StatesPath is the CSV file of a run.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "states.csv")
}

func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [9]float64
		for j, field := range record {
			if j == 1 {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("states.csv line %d: %w", i+2, err)
			}
			vals[j] = v
		}
		key, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("states.csv line %d: %w", i+2, err)
		}
		samples = append(samples, Sample{
			Time:     vals[0],
			Key:      handles.Key(key),
			Position: mgl64.Vec3{vals[2], vals[3], vals[4]},
			Velocity: mgl64.Vec3{vals[5], vals[6], vals[7]},
			Mass:     vals[8],
		})
	}

	return samples, nil
}

// Tracks groups samples by body. keys lists the bodies in the order they
// first appear.
func Tracks(samples []Sample) (keys []handles.Key, tracks map[handles.Key][]Sample) {
	tracks = make(map[handles.Key][]Sample)
	for _, smp := range samples {
		if _, ok := tracks[smp.Key]; !ok {
			keys = append(keys, smp.Key)
		}
		tracks[smp.Key] = append(tracks[smp.Key], smp)
	}
	return keys, tracks
}
