package impute

import (
	"testing"

	"github.com/browning-lab/beagle-impute/config"
	"github.com/browning-lab/beagle-impute/gmap"
	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/window"
)

type fakeEmission struct {
	mk         marker.Marker
	isTarget   bool
	refAlleles []int
	tgtAlleles []int
}

func (e fakeEmission) Marker() marker.Marker  { return e.mk }
func (e fakeEmission) IsTargetMarker() bool   { return e.isTarget }
func (e fakeEmission) RefAllele(h int) int    { return e.refAlleles[h] }
func (e fakeEmission) NRefHaps() int          { return len(e.refAlleles) }
func (e fakeEmission) TargetAllele(h int) int { return e.tgtAlleles[h] }
func (e fakeEmission) NTargetHaps() int       { return len(e.tgtAlleles) }

type fakeSource struct {
	emissions []window.Emission
	pos       int
	refS      marker.Samples
	tgtS      marker.Samples
}

func (s *fakeSource) HasNext() bool { return s.pos < len(s.emissions) }
func (s *fakeSource) Next() (window.Emission, error) {
	e := s.emissions[s.pos]
	s.pos++
	return e, nil
}
func (s *fakeSource) RefSamples() marker.Samples    { return s.refS }
func (s *fakeSource) TargetSamples() marker.Samples { return s.tgtS }
func (s *fakeSource) File() string                  { return "fake" }
func (s *fakeSource) Close() error                  { return nil }

func buildCurrentData(t *testing.T, nMarkers int) window.CurrentData {
	t.Helper()
	emissions := make([]window.Emission, nMarkers)
	for i := 0; i < nMarkers; i++ {
		emissions[i] = fakeEmission{
			mk:         marker.NewMarker(0, 100+i*100, []string{"A", "T"}),
			isTarget:   true,
			refAlleles: []int{0, 1, 1, 0},
			tgtAlleles: []int{0, 1},
		}
	}
	src := &fakeSource{
		emissions: emissions,
		refS:      marker.NewSamples([]string{"r0", "r1"}),
		tgtS:      marker.NewSamples([]string{"t0"}),
	}
	it, err := window.NewIterator(src)
	if err != nil {
		t.Fatalf("NewIterator: %v", err)
	}
	if err := it.AdvanceWindow(0, nMarkers); err != nil {
		t.Fatalf("AdvanceWindow: %v", err)
	}
	return window.NewCurrentData(it, 0)
}

func testPar(t *testing.T) *config.Par {
	t.Helper()
	par, err := config.ParseArgs([]string{"-ref", "r.vcf", "-gt", "g.vcf", "-out", "o", "-cluster", "1"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	return par
}

func linearMap(t *testing.T, nMarkers int) *gmap.Map {
	t.Helper()
	anchors := []gmap.Anchor{{Pos: 100, GenPos: 0}, {Pos: 100 + (nMarkers-1)*100, GenPos: float64(nMarkers - 1)}}
	m, err := gmap.NewMap(map[int][]gmap.Anchor{0: anchors})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func TestNewDataBuildsClustersAndModelParams(t *testing.T) {
	cd := buildCurrentData(t, 6)
	par := testPar(t)
	gm := linearMap(t, 6)

	data, err := NewData(par, cd, cd.TargetSampleHapPairs(), gm)
	if err != nil {
		t.Fatalf("NewData: %v", err)
	}
	if data.NClusters() == 0 {
		t.Fatal("NClusters() = 0")
	}
	if data.RefHapPairs().NHaps() != 4 {
		t.Fatalf("RefHapPairs().NHaps() = %d, want 4", data.RefHapPairs().NHaps())
	}
	if data.TargHapPairs().NHaps() != 2 {
		t.Fatalf("TargHapPairs().NHaps() = %d, want 2", data.TargHapPairs().NHaps())
	}
	// first cluster has no preceding recombination
	if data.PRecomb(0) != 0 {
		t.Fatalf("PRecomb(0) = %v, want 0", data.PRecomb(0))
	}
	if data.ErrProb(0) < 0 || data.ErrProb(0) > 0.5 {
		t.Fatalf("ErrProb(0) = %v, out of [0,0.5]", data.ErrProb(0))
	}
}

func TestNewDataRejectsMismatchedTargetMarkers(t *testing.T) {
	cd := buildCurrentData(t, 4)
	par := testPar(t)
	gm := linearMap(t, 4)

	otherMarkers := marker.NewSampleHapPairs(
		marker.NewSamples([]string{"t0"}),
		marker.NewMarkers([]marker.Marker{marker.NewMarker(0, 999, []string{"A", "T"})}),
		[]marker.IntArray{marker.NewIntArray([]int{0, 1})},
	)

	if _, err := NewData(par, cd, otherMarkers, gm); err == nil {
		t.Fatal("NewData with mismatched target markers did not error")
	}
}
