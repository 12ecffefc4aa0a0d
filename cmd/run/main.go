package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"

	qpdecay "github.com/Lilineko/AvoidedQPDecay"
	"github.com/Lilineko/AvoidedQPDecay/mat"
)

const (
	fnameEigen      = "eig.csv"
	fnameDone       = "done.txt"
	fnameStatistics = "statistics.txt"
	fnameHamilton   = "hamiltonian.db"
)

var (
	runDir = flag.String("d", filepath.Join("runs", "xxz"), "run directory")
	chainL = flag.Int("l", 12, "chain length")
	numEig = flag.Int("k", 1, "number of eigenpairs")
	alpha  = flag.Float64("alpha", 1, "magnon interaction scale")
	delta  = flag.Float64("delta", 1, "anisotropy")

	// Sectors larger than this are accumulated on disk.
	diskDim = flag.Int("diskdim", 1<<14, "disk accumulation threshold")
)

type Statistics struct {
	cfg qpdecay.Config
	qpdecay.Statistics

	Dimension int
}

func solveGround(dir string, cfg qpdecay.Config) error {
	basis, err := qpdecay.NewBasis(cfg)
	if err != nil {
		return errors.Wrap(err, "")
	}

	hamiltonian := mat.COOZeros(basis.Len(), basis.Len())
	switch {
	case basis.Len() >= *diskDim:
		dm := mat.DiskZeros(filepath.Join(dir, fnameHamilton), basis.Len(), basis.Len())
		qpdecay.XXZ(dm, basis, cfg)
		hamiltonian = dm.COO()
		if err := dm.Close(); err != nil {
			return errors.Wrap(err, "")
		}
	default:
		if err := qpdecay.XXZParallel(hamiltonian, basis, cfg, runtime.NumCPU()); err != nil {
			return errors.Wrap(err, "")
		}
	}

	vvs, conv, err := mat.Ground(hamiltonian, *numEig)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if vvs == nil {
		// Empty sector.
		return writeStatistics(dir, Statistics{cfg: cfg})
	}
	if conv.Converged < len(vvs) {
		return errors.Errorf("%#v", conv)
	}

	if err := writeEig(dir, vvs); err != nil {
		return errors.Wrap(err, "")
	}

	stats, err := qpdecay.GetStatistics(cfg, basis, vvs)
	if err != nil {
		return errors.Wrap(err, "")
	}
	return writeStatistics(dir, Statistics{cfg: cfg, Statistics: stats, Dimension: basis.Len()})
}

func writeStatistics(dir string, stats Statistics) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "")
	}
	fpath := filepath.Join(dir, fnameStatistics)
	if err := os.WriteFile(fpath, b, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func solve(dir string, cfg qpdecay.Config) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	if err := solveGround(dir, cfg); err != nil {
		return errors.Wrap(err, "")
	}

	if err := os.WriteFile(donePath, nil, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func gather(dir string, configs []qpdecay.Config) ([]Statistics, error) {
	stats := make([]Statistics, 0, len(configs))
	for _, cfg := range configs {
		sb, err := os.ReadFile(filepath.Join(sectorDir(dir, cfg), fnameStatistics))
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", cfg))
		}
		s := Statistics{cfg: cfg}
		if err := json.Unmarshal(sb, &s); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", cfg))
		}
		stats = append(stats, s)
	}
	return stats, nil
}

func writeEig(dir string, vvs []mat.ValVec) error {
	fpath := filepath.Join(dir, fnameEigen)
	f, err := os.Create(fpath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	w := csv.NewWriter(f)

	row := make([]string, len(vvs))
	for j, vv := range vvs {
		row[j] = strconv.FormatComplex(vv.Val, 'f', -1, 128)
	}
	if err1 := w.Write(row); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	for i := range len(vvs[0].Vec) {
		for j, vv := range vvs {
			row[j] = strconv.FormatComplex(vv.Vec[i], 'f', -1, 128)
		}
		if err1 := w.Write(row); err1 != nil && err == nil {
			err = errors.Wrap(err1, "")
			break
		}
	}

	w.Flush()
	if err1 := w.Error(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	if err1 := f.Close(); err1 != nil && err == nil {
		err = errors.Wrap(err1, "")
	}
	return err
}

func sectorDir(dir string, cfg qpdecay.Config) string {
	return filepath.Join(dir, fmt.Sprintf("l%d", cfg.L), fmt.Sprintf("s%dm%d", cfg.Magnetization, cfg.Momentum))
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	if err := os.MkdirAll(*runDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	// Every (magnetization, momentum) sector of the chain.
	configs := make([]qpdecay.Config, 0)
	for s := 0; s <= *chainL/2; s++ {
		for m := 0; m < *chainL; m++ {
			cfg := qpdecay.Config{L: *chainL, Momentum: m, Magnetization: s, J: 1, Delta: *delta, Alpha: *alpha}
			configs = append(configs, cfg)
		}
	}

	for _, cfg := range configs {
		if err := solve(sectorDir(*runDir, cfg), cfg); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%#v", cfg))
		}
		log.Printf("s=%d m=%d", cfg.Magnetization, cfg.Momentum)
	}

	stats, err := gather(*runDir, configs)
	if err != nil {
		return errors.Wrap(err, "")
	}
	fmt.Printf("l,s,m,dim,e0,density,staggered\n")
	for _, s := range stats {
		var e0 float64
		if len(s.EigenValue) > 0 {
			e0 = s.EigenValue[0]
		}
		fmt.Printf("%d,%d,%d,%d,%f,%f,%f\n", s.cfg.L, s.cfg.Magnetization, s.cfg.Momentum, s.Dimension, e0, s.MagnonDensity, s.StaggeredMagnetization)
	}
	return nil
}
