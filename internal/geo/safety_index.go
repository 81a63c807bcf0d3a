package geo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"saferoute/internal/domain/entities"
	"saferoute/pkg/utils"
)

// Required column names of the reference dataset, matched case-insensitively
// against the header row.
const (
	ColLatitude       = "latitude"
	ColLongitude      = "longitude"
	ColLighting       = "lighting"
	ColCrowd          = "crowd"
	ColPoliceDistance = "police_distance"
	ColCrimeRate      = "crime_rate"
)

var requiredColumns = []string{
	ColLatitude, ColLongitude, ColLighting, ColCrowd, ColPoliceDistance, ColCrimeRate,
}

var (
	// ErrDataLoad matches every *DataLoadError via errors.Is.
	ErrDataLoad = errors.New("safety data load failed")
	// ErrEmptyIndex is returned by Nearest when the index holds no points.
	ErrEmptyIndex = errors.New("safety index is empty")
)

// DataLoadError describes why the reference dataset could not be loaded.
// Line and Column are zero when the failure is not tied to a cell.
type DataLoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *DataLoadError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDataLoad.Error())
	if e.Path != "" {
		b.WriteString(": " + e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataLoad) true for any DataLoadError.
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

// SafetyIndex holds the reference safety records and answers nearest-point
// queries. It is built once at startup and never modified afterwards.
//
// Go Learning Note — Immutability Instead of Locks:
// An index of moving objects needs a sync.RWMutex around its map because
// writers never stop. Reference points never change after Load, so the
// index has no writer at all: every method only reads, and any number of
// goroutines may share one *SafetyIndex without synchronization. Points()
// hands out a copy so no caller can break that guarantee.
type SafetyIndex struct {
	points    []entities.ReferencePoint
	precision int
}

// NewSafetyIndex builds an index from already-parsed points, tagging each with
// its geohash cell. The slice is copied; iteration order is preserved and
// decides nearest-point ties.
func NewSafetyIndex(points []entities.ReferencePoint, precision int) *SafetyIndex {
	p := make([]entities.ReferencePoint, len(points))
	copy(p, points)
	for i := range p {
		p[i].Geohash = Encode(p[i].Latitude, p[i].Longitude, precision)
	}
	return &SafetyIndex{points: p, precision: precision}
}

// LoadSafetyIndexFile opens path and parses it with LoadSafetyIndex.
func LoadSafetyIndexFile(path string, precision int) (*SafetyIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	idx, err := LoadSafetyIndex(f, precision)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			dle.Path = path
		}
		return nil, err
	}
	return idx, nil
}

// LoadSafetyIndex parses CSV reference data. The first row is the header;
// columns are located by name, may appear in any order, and extra columns are
// ignored. A header with no data rows yields an empty index.
func LoadSafetyIndex(r io.Reader, precision int) (*SafetyIndex, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataLoadError{Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &DataLoadError{Err: err}
	}

	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var points []entities.ReferencePoint
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Err: err}
		}
		line, _ := reader.FieldPos(0)

		p, err := parseRecord(record, cols, line)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return NewSafetyIndex(points, precision), nil
}

func columnIndexes(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &DataLoadError{Line: 1, Column: name, Err: errors.New("missing required column")}
		}
	}
	return cols, nil
}

func parseRecord(record []string, cols map[string]int, line int) (entities.ReferencePoint, error) {
	values := make(map[string]float64, len(requiredColumns))
	for _, name := range requiredColumns {
		i := cols[name]
		if i >= len(record) {
			return entities.ReferencePoint{}, &DataLoadError{Line: line, Column: name, Err: errors.New("missing value")}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return entities.ReferencePoint{}, &DataLoadError{Line: line, Column: name, Err: err}
		}
		if !utils.IsFinite(v) {
			return entities.ReferencePoint{}, &DataLoadError{Line: line, Column: name, Err: fmt.Errorf("non-finite value %v", v)}
		}
		values[name] = v
	}

	p := entities.ReferencePoint{
		Latitude:       values[ColLatitude],
		Longitude:      values[ColLongitude],
		Lighting:       values[ColLighting],
		Crowd:          values[ColCrowd],
		PoliceDistance: values[ColPoliceDistance],
		CrimeRate:      values[ColCrimeRate],
	}

	if err := p.Location().Validate(); err != nil {
		return entities.ReferencePoint{}, &DataLoadError{Line: line, Err: err}
	}
	for _, name := range []string{ColLighting, ColCrowd, ColPoliceDistance, ColCrimeRate} {
		if v := values[name]; v < 0 || v > 1 {
			return entities.ReferencePoint{}, &DataLoadError{Line: line, Column: name, Err: fmt.Errorf("value %v outside [0,1]", v)}
		}
	}
	return p, nil
}

// Nearest returns the reference point with the smallest squared degree
// distance to (lat, lon). The scan is exhaustive; among equally distant
// points the first in load order wins.
func (s *SafetyIndex) Nearest(lat, lon float64) (entities.ReferencePoint, error) {
	if len(s.points) == 0 {
		return entities.ReferencePoint{}, ErrEmptyIndex
	}

	best := 0
	bestDist := utils.SquaredDegreeDistance(s.points[0].Latitude, s.points[0].Longitude, lat, lon)
	for i := 1; i < len(s.points); i++ {
		d := utils.SquaredDegreeDistance(s.points[i].Latitude, s.points[i].Longitude, lat, lon)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return s.points[best], nil
}

// Len returns the number of reference points.
func (s *SafetyIndex) Len() int {
	return len(s.points)
}

// Points returns a copy of the reference points in load order.
func (s *SafetyIndex) Points() []entities.ReferencePoint {
	out := make([]entities.ReferencePoint, len(s.points))
	copy(out, s.points)
	return out
}

// Precision returns the geohash precision used to tag points.
func (s *SafetyIndex) Precision() int {
	return s.precision
}
