package geo

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"saferoute/internal/domain/entities"
	"saferoute/pkg/utils"
)

const sampleCSV = `latitude,longitude,lighting,crowd,police_distance,crime_rate
13.0827,80.2707,0.9,0.8,0.2,0.1
13.0500,80.2824,0.3,0.4,0.7,0.6
13.0674,80.2376,0.6,0.5,0.4,0.3
`

func point(lat, lon float64) entities.ReferencePoint {
	return entities.ReferencePoint{Latitude: lat, Longitude: lon, Lighting: 0.5, Crowd: 0.5, PoliceDistance: 0.5, CrimeRate: 0.5}
}

func TestLoadSafetyIndex(t *testing.T) {
	idx, err := LoadSafetyIndex(strings.NewReader(sampleCSV), 7)
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())

	first := idx.Points()[0]
	assert.Equal(t, 13.0827, first.Latitude)
	assert.Equal(t, 80.2707, first.Longitude)
	assert.Equal(t, 0.9, first.Lighting)
	assert.Equal(t, 0.8, first.Crowd)
	assert.Equal(t, 0.2, first.PoliceDistance)
	assert.Equal(t, 0.1, first.CrimeRate)
	assert.Equal(t, Encode(13.0827, 80.2707, 7), first.Geohash)
	assert.Equal(t, 7, idx.Precision())
}

func TestLoadSafetyIndex_ColumnOrderAndExtras(t *testing.T) {
	csv := "id, Crime_Rate ,police_distance,crowd,lighting,longitude,LATITUDE,area\n" +
		"p1,0.1,0.2,0.8,0.9,80.2707,13.0827,central\n"

	idx, err := LoadSafetyIndex(strings.NewReader(csv), 6)
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())

	p := idx.Points()[0]
	assert.Equal(t, 13.0827, p.Latitude)
	assert.Equal(t, 80.2707, p.Longitude)
	assert.Equal(t, 0.9, p.Lighting)
	assert.Equal(t, 0.1, p.CrimeRate)
}

func TestLoadSafetyIndex_HeaderOnly(t *testing.T) {
	idx, err := LoadSafetyIndex(strings.NewReader("latitude,longitude,lighting,crowd,police_distance,crime_rate\n"), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())

	_, err = idx.Nearest(0, 0)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestLoadSafetyIndex_Errors(t *testing.T) {
	header := "latitude,longitude,lighting,crowd,police_distance,crime_rate\n"
	tests := []struct {
		name   string
		input  string
		column string
		line   int
	}{
		{name: "empty source", input: ""},
		{name: "missing column", input: "latitude,longitude,lighting,crowd,police_distance\n1,1,1,1,1\n", column: ColCrimeRate, line: 1},
		{name: "non numeric", input: header + "13.1,80.2,bright,0.5,0.5,0.5\n", column: ColLighting, line: 2},
		{name: "not a number", input: header + "13.1,80.2,NaN,0.5,0.5,0.5\n", column: ColLighting, line: 2},
		{name: "infinite", input: header + "13.1,80.2,0.5,+Inf,0.5,0.5\n", column: ColCrowd, line: 2},
		{name: "latitude out of range", input: header + "91,80.2,0.5,0.5,0.5,0.5\n", line: 2},
		{name: "longitude out of range", input: header + "13.1,-181,0.5,0.5,0.5,0.5\n", line: 2},
		{name: "attribute above one", input: header + "13.1,80.2,0.5,0.5,1.5,0.5\n", column: ColPoliceDistance, line: 2},
		{name: "ragged row", input: header + "13.1,80.2,0.5\n"},
		{name: "bad row after good row", input: header + "13.1,80.2,0.5,0.5,0.5,0.5\n13.2,80.3,0.5,0.5,0.5,-0.1\n", column: ColCrimeRate, line: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := LoadSafetyIndex(strings.NewReader(tt.input), 7)
			require.Error(t, err)
			assert.Nil(t, idx)
			assert.ErrorIs(t, err, ErrDataLoad)

			var dle *DataLoadError
			require.True(t, errors.As(err, &dle))
			if tt.column != "" {
				assert.Equal(t, tt.column, dle.Column)
			}
			if tt.line != 0 {
				assert.Equal(t, tt.line, dle.Line)
			}
		})
	}
}

func TestLoadSafetyIndexFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safety_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0600))

	idx, err := LoadSafetyIndexFile(path, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestLoadSafetyIndexFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")

	_, err := LoadSafetyIndexFile(path, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestLoadSafetyIndexFile_MalformedCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("lat,lon\n1,2\n"), 0600))

	_, err := LoadSafetyIndexFile(path, 7)
	var dle *DataLoadError
	require.True(t, errors.As(err, &dle))
	assert.Equal(t, path, dle.Path)
	assert.Equal(t, ColLatitude, dle.Column)
}

func TestSafetyIndex_Nearest(t *testing.T) {
	idx := NewSafetyIndex([]entities.ReferencePoint{point(0, 0), point(10, 10)}, 7)

	got, err := idx.Nearest(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Latitude)
	assert.Equal(t, 0.0, got.Longitude)

	got, err = idx.Nearest(9, 8)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Latitude)
}

func TestSafetyIndex_NearestTieTakesFirst(t *testing.T) {
	a := point(1, 0)
	a.Lighting = 0.1
	b := point(-1, 0)
	b.Lighting = 0.9
	idx := NewSafetyIndex([]entities.ReferencePoint{a, b}, 7)

	got, err := idx.Nearest(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.Lighting)

	// Swapping load order swaps the winner.
	idx = NewSafetyIndex([]entities.ReferencePoint{b, a}, 7)
	got, err = idx.Nearest(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.9, got.Lighting)
}

func TestSafetyIndex_NearestEmpty(t *testing.T) {
	idx := NewSafetyIndex(nil, 7)

	_, err := idx.Nearest(13.08, 80.27)
	assert.True(t, errors.Is(err, ErrEmptyIndex))
}

func TestSafetyIndex_NearestIsMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]entities.ReferencePoint, 200)
	for i := range points {
		points[i] = point(rng.Float64()*180-90, rng.Float64()*360-180)
	}
	idx := NewSafetyIndex(points, 7)

	for q := 0; q < 100; q++ {
		lat, lon := rng.Float64()*180-90, rng.Float64()*360-180
		got, err := idx.Nearest(lat, lon)
		require.NoError(t, err)

		gotDist := utils.SquaredDegreeDistance(got.Latitude, got.Longitude, lat, lon)
		for _, p := range points {
			assert.LessOrEqual(t, gotDist, utils.SquaredDegreeDistance(p.Latitude, p.Longitude, lat, lon))
		}
	}
}

func TestSafetyIndex_PointsIsACopy(t *testing.T) {
	idx := NewSafetyIndex([]entities.ReferencePoint{point(0, 0)}, 7)

	pts := idx.Points()
	pts[0].Latitude = 45

	got, err := idx.Nearest(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Latitude)
}

func TestSafetyIndex_ConcurrentReads(t *testing.T) {
	idx, err := LoadSafetyIndex(strings.NewReader(sampleCSV), 7)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p, err := idx.Nearest(13.08, 80.27)
				if err != nil || p.Latitude != 13.0827 {
					t.Errorf("unexpected nearest %+v, err %v", p, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkNearest(b *testing.B) {
	points := make([]entities.ReferencePoint, 1000)
	for i := range points {
		points[i] = point(13.0+float64(i%100)*0.001, 80.0+float64(i/100)*0.001)
	}
	idx := NewSafetyIndex(points, 7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Nearest(13.05, 80.005)
	}
}
