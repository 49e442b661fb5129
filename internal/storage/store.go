package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/trajsim/internal/diagnostics"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type EventRecord struct {
	Name      string    `json:"name"`
	T         float64   `json:"t"`
	State     []float64 `json:"state"`
	Direction string    `json:"direction"`
	Terminal  bool      `json:"terminal"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name,omitempty"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	T0         float64            `json:"t0"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	MaxSteps   int                `json:"max_steps,omitempty"`
	Params     map[string]float64 `json:"params,omitempty"`
	Status     string             `json:"status"`
	Reason     string             `json:"reason"`
	Steps      int                `json:"steps"`
	FinalTime  float64            `json:"final_time"`
	Events     []EventRecord      `json:"events,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Error      string             `json:"error,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Describe fills the outcome fields of meta from a run.
func Describe(meta RunMetadata, res *sim.Result, metrics diagnostics.Set) RunMetadata {
	meta.Status = res.Status.String()
	meta.Reason = res.Reason
	meta.Steps = res.StepsTaken
	if res.Trajectory != nil && res.Trajectory.Len() > 0 {
		meta.FinalTime = res.Final().T
	}
	meta.Events = make([]EventRecord, 0, len(res.Events))
	for _, c := range res.Events {
		meta.Events = append(meta.Events, EventRecord{
			Name:      c.Name,
			T:         c.Point.T,
			State:     c.Point.X,
			Direction: c.Direction.String(),
			Terminal:  c.Terminal,
		})
	}
	meta.Warnings = nil
	for _, w := range res.Warnings {
		meta.Warnings = append(meta.Warnings, w.Error())
	}
	if res.Err != nil {
		meta.Error = res.Err.Error()
	}
	meta.Metrics = finite(metrics)
	return meta
}

// finite drops NaN and infinite values, which JSON cannot carry.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// Save writes metadata.json and trajectory.csv into a new run directory
// and returns the run id. An empty meta.ID gets a fresh UUID.
func (s *Store) Save(meta RunMetadata, traj *dynamo.Trajectory) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	meta.Metrics = finite(meta.Metrics)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), traj); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectory(path string, traj *dynamo.Trajectory) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	header := []string{"time"}
	for i := 0; i < traj.Dim(); i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range traj.Rows() {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectory reads trajectory.csv back into a frozen trajectory.
func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	traj := dynamo.NewTrajectory(max(len(records)-1, 0))
	for i, rec := range records {
		if i == 0 {
			continue
		}
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		if len(vals) == 0 {
			continue
		}
		if err := traj.Append(dynamo.Point{T: vals[0], X: vals[1:]}); err != nil {
			return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
		}
	}
	traj.Freeze()
	return traj, nil
}
