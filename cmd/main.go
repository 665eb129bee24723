package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fyerfyer/fault-sim/pkg/atpg"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/fyerfyer/fault-sim/pkg/sim"
	"github.com/fyerfyer/fault-sim/pkg/utils"
	"github.com/pkg/errors"
)

func main() {
	// Parse command-line arguments
	circuitFile := flag.String("circuit", "circuit.bench", "Circuit file in BENCH format")
	vectorFile := flag.String("vectors", "input.txt", "Input vector file, one vector per line")
	faultFile := flag.String("faults", "", "Fault list file (e.g. lines like 'a-SA-0' or 'z-IN-a-SA-1')")
	outputFile := flag.String("output", "output.txt", "Output file; faulty results go to faulty_<output>")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of vectors simulated in parallel")
	strict := flag.Bool("strict", false, "Reject vectors longer than the input width")
	worklist := flag.Bool("worklist", false, "Use the polling worklist scheduler instead of the ready queue")
	genTest := flag.Bool("atpg", false, "Generate a test vector for the fault list instead of simulating")
	coverage := flag.Bool("coverage", false, "Generate tests for every single stuck-at line fault")
	verbose := flag.Bool("verbose", false, "Verbose output")
	logLevelName := flag.String("loglevel", "", "Log level (error, warning, info, debug, trace); overrides -verbose")
	logFile := flag.String("log", "", "Log file (default: stdout)")
	flag.Parse()

	// Configure logger
	logLevel := utils.InfoLevel
	if *verbose {
		logLevel = utils.DebugLevel
	}
	if *logLevelName != "" {
		level, ok := utils.ParseLogLevel(*logLevelName)
		if !ok {
			fmt.Printf("Error: unknown log level %q\n", *logLevelName)
			os.Exit(1)
		}
		logLevel = level
	}
	utils.SetDefaultLogLevel(logLevel)

	var logger *utils.Logger
	var err error

	if *logFile != "" {
		logger, err = utils.NewFileLogger(logLevel, *logFile)
		if err != nil {
			fmt.Printf("Error creating log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()
	} else {
		logger = utils.NewLogger(logLevel)
	}

	if err := run(logger, options{
		circuitFile: *circuitFile,
		vectorFile:  *vectorFile,
		faultFile:   *faultFile,
		outputFile:  *outputFile,
		workers:     *workers,
		strict:      *strict,
		worklist:    *worklist,
		genTest:     *genTest,
		coverage:    *coverage,
	}); err != nil {
		logger.Error("%v", err)
		logger.Close()
		os.Exit(1)
	}
}

type options struct {
	circuitFile string
	vectorFile  string
	faultFile   string
	outputFile  string
	workers     int
	strict      bool
	worklist    bool
	genTest     bool
	coverage    bool
}

func run(logger *utils.Logger, opts options) error {
	// Parse circuit file
	logger.Info("Reading circuit from %s", opts.circuitFile)
	n, err := utils.ParseBenchFile(opts.circuitFile)
	if err != nil {
		return errors.Wrap(err, "failed to parse circuit")
	}
	logger.Info("Circuit: %s", n.Name)
	logger.Info("Gates: %d", len(n.Gates))
	logger.Info("Wires: %d", len(n.Wires))
	logger.Info("Primary inputs: %d", n.InputWidth())
	logger.Info("Primary outputs: %d", len(n.Outputs))
	logger.Info("Depth: %d, fanout points: %d", n.MaxLevel(), len(n.FanoutPoints()))
	for level, names := range n.LevelMap() {
		logger.Netlist("level %d: %v", level, names)
	}

	// A conflicting fault list only disables the faulty pass.
	var fs *fault.Set
	if opts.faultFile != "" {
		logger.Info("Reading faults from %s", opts.faultFile)
		faults, err := utils.ParseFaultFile(opts.faultFile)
		if err != nil {
			return errors.Wrap(err, "failed to parse faults")
		}
		fs, err = fault.NewSet(n, faults)
		if err != nil {
			if opts.genTest || errors.Cause(err) != fault.ErrFaultConflict {
				return errors.Wrap(err, "invalid fault list")
			}
			logger.Warning("Fault list rejected, simulating the good circuit only: %v", err)
			fs = nil
		}
	}

	gen := atpg.NewGenerator(n, logger)
	if opts.coverage {
		report, err := gen.Coverage(atpg.SingleFaults(n))
		if err != nil {
			return errors.Wrap(err, "coverage run failed")
		}
		for _, r := range report.Results {
			if r.Detected {
				logger.Info("%s: %s", r.Fault, r.Vector)
			} else {
				logger.Info("%s: undetectable", r.Fault)
			}
		}
		logger.Info("Coverage: %s", report)
		return nil
	}
	if opts.genTest {
		if fs == nil {
			return errors.New("-atpg needs a fault list")
		}
		vec, ok, err := gen.FindTest(fs)
		if err != nil {
			return errors.Wrap(err, "test generation failed")
		}
		if !ok {
			logger.Info("Faults are undetectable at the primary outputs")
			return nil
		}
		logger.Info("Test vector: %s", vec)
		return nil
	}

	logger.Info("Reading vectors from %s", opts.vectorFile)
	lines, err := utils.ReadVectorFile(opts.vectorFile)
	if err != nil {
		return errors.Wrap(err, "failed to read vectors")
	}
	vectors := make([]string, len(lines))
	for i, line := range lines {
		vectors[i] = line.Bits
	}

	var simOpts []sim.Option
	simOpts = append(simOpts, sim.WithLogger(logger))
	if opts.strict {
		simOpts = append(simOpts, sim.WithStrictWidth())
	}
	if opts.worklist {
		simOpts = append(simOpts, sim.WithStrategy(sim.Worklist))
	}

	logger.Info("Simulating %d vectors with %d workers", len(vectors), opts.workers)
	results := sim.RunVectors(context.Background(), n, fs, vectors, opts.workers, simOpts...)

	good := make([]utils.OutputRecord, len(results))
	faulty := make([]utils.OutputRecord, len(results))
	detected, failed := 0, 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			logger.Warning("vector %q: %v", r.Vector, r.Err)
		}
		if r.Detected() {
			detected++
		}
		good[i] = utils.OutputRecord{Vector: lines[i].Text, Text: r.GoodText()}
		faulty[i] = utils.OutputRecord{Vector: lines[i].Text, Text: r.FaultyText()}
	}

	logger.Info("Writing results to %s", opts.outputFile)
	if err := utils.WriteOutputFile(opts.outputFile, good); err != nil {
		return err
	}
	if fs != nil {
		dir, base := filepath.Split(opts.outputFile)
		faultyFile := filepath.Join(dir, "faulty_"+base)
		logger.Info("Writing faulty results to %s", faultyFile)
		if err := utils.WriteOutputFile(faultyFile, faulty); err != nil {
			return err
		}
		logger.Info("Vectors detecting the faults: %d", detected)
	}

	logger.Info("Simulation complete: %d vectors, %d failed", len(results), failed)
	return nil
}
