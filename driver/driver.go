package driver

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/exascience/pargo/parallel"

	"github.com/browning-lab/beagle-impute/config"
	"github.com/browning-lab/beagle-impute/gmap"
	"github.com/browning-lab/beagle-impute/gprobs"
	"github.com/browning-lab/beagle-impute/hmm"
	"github.com/browning-lab/beagle-impute/ibd"
	"github.com/browning-lab/beagle-impute/impute"
	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/vcf"
	"github.com/browning-lab/beagle-impute/window"
)

// Run executes one imputation job end to end: it streams the reference
// and target VCFs through the sliding window, fans the Li-Stephens HMM
// out over every target haplotype per window, and writes the VCF and
// IBD/HBD output, tagging the run with a generated ID for provenance.
func Run(par *config.Par) error {
	runID := uuid.New().String()
	log.Printf("beagle-impute: run=%s ref=%s gt=%s out=%s", runID, par.Ref(), par.Gt(), par.Out())

	if par.Gmap() == "" {
		return fmt.Errorf("driver: -map is required")
	}

	chroms := vcf.NewChromTable()
	gm, err := gmap.Load(par.Gmap(), chroms)
	if err != nil {
		return err
	}

	src, err := vcf.OpenSource(par.Ref(), par.Gt(), par.Chrom(), par.ExcludeFromRef(), par.ExcludeSamples(), chroms, par.NThreads())
	if err != nil {
		return err
	}
	defer src.Close()

	it, err := window.NewIterator(src)
	if err != nil {
		return err
	}

	ww, err := NewWindowWriter(par.Out(), src.TargetSamples().Ids(), chroms, par.Gprobs(), runID, time.Now().Format("20060102"), par.NThreads())
	if err != nil {
		return err
	}
	defer ww.Close()

	nWindows := 0
	for {
		err := it.AdvanceWindowCM(par.Overlap(), par.Window(), gm)
		if err == window.ErrNoLookahead {
			break
		}
		if err != nil {
			return err
		}

		nextOverlap := it.PeekOverlap(par.Overlap())
		cd := window.NewCurrentData(it, nextOverlap)
		if err := processWindow(par, ww, cd, gm); err != nil {
			return err
		}
		nWindows++
		log.Printf("beagle-impute: run=%s window=%d cumMarkers=%d", runID, nWindows, it.CumulativeMarkers())
	}
	return nil
}

// processWindow handles one window's worth of work: it echoes genotyped
// target markers, runs the HMM fan-out and writes imputed markers when
// requested, detects IBD/HBD candidates, and drains the splice-merge
// buffer through the writer.
func processWindow(par *config.Par, ww *WindowWriter, cd window.CurrentData, gm *gmap.Map) error {
	targetHaps := cd.TargetSampleHapPairs()

	if cd.NTargetMarkers() == 0 {
		return ww.PrintIbd(cd, nil)
	}

	observed := deltaAlleleProbs(targetHaps)
	gvGenotypes, gvInfo := buildGVRecords(cd, observed)
	if err := ww.PrintGV(cd, gvGenotypes, gvInfo); err != nil {
		return err
	}

	if par.Impute() {
		data, err := impute.NewData(par, cd, targetHaps, gm)
		if err != nil {
			return err
		}
		alProbs := runHMM(par, data)
		statsAt := func(m int) (gprobs.Stats, bool) {
			return gprobs.NewStats(m, alProbs), true
		}
		if par.LogDir() != "" {
			for m := cd.PrevSplice(); m < cd.NextSplice(); m++ {
				if st, ok := statsAt(m); ok {
					log.Print(st.String())
				}
			}
		}
		if err := ww.Print(cd, alProbs, statsAt); err != nil {
			return err
		}
	}

	candidates := ibd.Detect(targetHaps)
	return ww.PrintIbd(cd, candidates)
}

// runHMM fans the Li-Stephens forward-backward recurrence out over every
// target haplotype in data, giving each work-stealing worker its own Baum
// instance, and combines the per-haplotype results deterministically by
// haplotype index.
func runHMM(par *config.Par, data *impute.Data) []hmm.AlleleProbs {
	nHaps := data.TargHapPairs().NHaps()
	out := make([]hmm.AlleleProbs, nHaps)
	parallel.Range(0, nHaps, 0, func(low, high int) {
		baum := hmm.NewBaum(data, par.LowMem())
		for h := low; h < high; h++ {
			out[h] = baum.RandomHapSample(h)
		}
	})
	return out
}

// deltaAlleleProbs builds a degenerate, single-allele AlleleProbs per
// target haplotype from its observed (already phased) allele calls, so
// genotyped markers can be reduced to VCF output through the same
// gprobs/vcf machinery the imputed markers use.
func deltaAlleleProbs(targetHaps marker.SampleHapPairs) []hmm.AlleleProbs {
	markers := targetHaps.Markers()
	nHaps := targetHaps.NHaps()
	out := make([]hmm.AlleleProbs, nHaps)
	for h := 0; h < nHaps; h++ {
		probs := make([]float64, markers.SumAllelesTotal())
		for m := 0; m < markers.NMarkers(); m++ {
			probs[markers.SumAlleles(m)+targetHaps.Allele(m, h)] = 1
		}
		out[h] = hmm.NewAlleleProbs(markers, h, probs)
	}
	return out
}

// buildGVRecords reduces observed, per-haplotype allele distributions
// into one unphased Genotype per sample and one gprobs.Stats per target
// marker, the shape WindowWriter.PrintGV requires.
func buildGVRecords(cd window.CurrentData, hapProbs []hmm.AlleleProbs) ([][]vcf.Genotype, []gprobs.Stats) {
	nTargetMarkers := cd.NTargetMarkers()
	nSamples := len(hapProbs) / 2

	genotypes := make([][]vcf.Genotype, nTargetMarkers)
	info := make([]gprobs.Stats, nTargetMarkers)
	for m := 0; m < nTargetMarkers; m++ {
		row := make([]vcf.Genotype, nSamples)
		for j := 0; j < nSamples; j++ {
			row[j] = vcf.GenotypeFromGenotypeProbs(hapProbs[2*j], hapProbs[2*j+1], m)
		}
		genotypes[m] = row
		info[m] = gprobs.NewStats(m, hapProbs)
	}
	return genotypes, info
}
