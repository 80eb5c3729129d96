package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/san-kum/swarmsim/internal/sim"
	"github.com/san-kum/swarmsim/internal/swarm"
	"github.com/san-kum/swarmsim/internal/trace"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.json"
	framesFile   = "frames.csv"
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
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Params    swarm.Params       `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// FrameRow is one agent in one frame of frames.csv.
type FrameRow struct {
	Frame  int     `csv:"frame"`
	Action int     `csv:"action"`
	Agent  int     `csv:"agent"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Phase  float64 `csv:"phase"`
}

// Save writes a run directory and returns its ID. ID, Timestamp and Metrics
// are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%s", meta.Name, uuid.Must(uuid.NewV7()).String())
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics
	meta.Steps = result.StepsTaken

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := trace.Save(filepath.Join(runDir, traceFile), result.Frames); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	rows := frameRows(result)
	if err := gocsv.MarshalFile(&rows, csvFile); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func frameRows(result *sim.Result) []FrameRow {
	n := 0
	if len(result.Frames) > 0 {
		n = result.Frames[0].Len()
	}
	rows := make([]FrameRow, 0, len(result.Frames)*n)
	for i, f := range result.Frames {
		action := 0
		if i < len(result.Actions) {
			action = int(result.Actions[i])
		}
		for j, p := range f.AgentsPos {
			rows = append(rows, FrameRow{
				Frame:  i,
				Action: action,
				Agent:  j,
				X:      p[0],
				Y:      p[1],
				Phase:  f.AgentsPhase[j],
			})
		}
	}
	return rows
}

// List returns stored runs, oldest first.
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

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
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
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]trace.Frame, error) {
	return trace.Load(filepath.Join(s.baseDir, runID, traceFile))
}

func (s *Store) LoadFrames(runID string) ([]FrameRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []FrameRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadActions returns the action of every frame, recovered from frames.csv.
func (s *Store) LoadActions(runID string) ([]swarm.Action, error) {
	rows, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}
	var actions []swarm.Action
	for _, r := range rows {
		if r.Agent == 0 {
			actions = append(actions, swarm.Action(r.Action))
		}
	}
	return actions, nil
}
