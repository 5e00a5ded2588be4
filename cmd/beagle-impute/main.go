// beagle-impute genotype-imputes a target VCF against a reference haplotype
// panel using a Li-Stephens hidden Markov model.
package main

import (
	"log"
	"os"

	"github.com/browning-lab/beagle-impute/config"
	"github.com/browning-lab/beagle-impute/driver"
)

func main() {
	par, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if par.LogDir() != "" {
		if err := redirectStderrToLog(par.LogDir()); err != nil {
			log.Fatal(err)
		}
	}
	if err := driver.Run(par); err != nil {
		log.Fatal(err)
	}
}
