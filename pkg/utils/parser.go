package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
	"github.com/pkg/errors"
)

// Regular expressions for parsing BENCH format. Lines are matched after
// all whitespace has been removed.
var (
	inputRegex  = regexp.MustCompile(`^INPUT\(([^()=,]+)\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\(([^()=,]+)\)$`)
	gateRegex   = regexp.MustCompile(`^([^()=,]+)=(\w+)\((.+)\)$`)
)

// ErrSyntax is returned for lines a reader cannot make sense of
var ErrSyntax = errors.New("syntax error")

// ParseBenchFile reads a circuit description in BENCH format and returns
// the resolved netlist, named after the file.
func ParseBenchFile(filename string) (*circuit.Netlist, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ParseBench(file, name)
}

// ParseBench reads a BENCH netlist:
//
//	# comment
//	INPUT(a)
//	OUTPUT(z)
//	z = AND(a, b)
func ParseBench(r io.Reader, name string) (*circuit.Netlist, error) {
	d := circuit.Description{Name: name}

	err := scanLines(r, func(lineNo int, line string) error {
		line = stripSpaces(line)

		if matches := inputRegex.FindStringSubmatch(line); matches != nil {
			d.Inputs = append(d.Inputs, matches[1])
			return nil
		}
		if matches := outputRegex.FindStringSubmatch(line); matches != nil {
			d.Outputs = append(d.Outputs, matches[1])
			return nil
		}
		if matches := gateRegex.FindStringSubmatch(line); matches != nil {
			gateType, err := circuit.ParseGateType(matches[2])
			if err != nil {
				return errors.Wrapf(err, "line %d", lineNo)
			}
			d.Gates = append(d.Gates, circuit.GateSpec{
				Output: matches[1],
				Type:   gateType,
				Inputs: strings.Split(matches[3], ","),
			})
			return nil
		}
		return errors.Wrapf(ErrSyntax, "line %d: %q", lineNo, line)
	})
	if err != nil {
		return nil, err
	}

	return circuit.New(d)
}

// ParseFaultFile reads a fault list file
func ParseFaultFile(filename string) ([]fault.Fault, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return ParseFaults(file)
}

// ParseFaults reads one fault per line, e.g. "a-SA-0" or "z-IN-a-SA-1"
func ParseFaults(r io.Reader) ([]fault.Fault, error) {
	var faults []fault.Fault
	err := scanLines(r, func(lineNo int, line string) error {
		f, err := fault.Parse(stripSpaces(line))
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNo)
		}
		faults = append(faults, f)
		return nil
	})
	return faults, err
}

// Vector is one line of a vector file
type Vector struct {
	Text string // The line as written, echoed in output files
	Bits string // Text with spaces removed, as simulated
}

// ReadVectorFile reads an input vector file
func ReadVectorFile(filename string) ([]Vector, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return ReadVectors(file)
}

// ReadVectors reads one vector per line. Vectors are not validated here;
// the simulation session reports bad ones per vector.
func ReadVectors(r io.Reader) ([]Vector, error) {
	var vectors []Vector
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		vectors = append(vectors, Vector{Text: text, Bits: stripSpaces(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading file")
	}
	return vectors, nil
}

// OutputRecord is one line of a simulation output file
type OutputRecord struct {
	Vector string
	Text   string // Output bits or a diagnostic
}

// WriteOutputFile writes records to filename
func WriteOutputFile(filename string, records []OutputRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := WriteOutputs(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteOutputs writes records as "<vector> -> <text>" lines
func WriteOutputs(w io.Writer, records []OutputRecord) error {
	writer := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(writer, "%s -> %s\n", rec.Vector, rec.Text); err != nil {
			return errors.Wrap(err, "write output")
		}
	}
	return errors.Wrap(writer.Flush(), "write output")
}

// scanLines calls fn for every line that is neither blank nor a comment
func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "error reading file")
	}
	return nil
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
