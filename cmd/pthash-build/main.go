// pthash-build constructs a minimal perfect hash function from a key file
// and writes the serialized PHF plus a values trailer, per spec.md §6's
// build command (an external collaborator to the query-time core; see
// SPEC_FULL.md §4.12).
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"

	flag "github.com/opencoff/pflag"

	"github.com/aelaguiz/pthash-go/internal/core"
	"github.com/aelaguiz/pthash-go/pkg/pthash"
)

func main() {
	var opt options

	usage := fmt.Sprintf(`%s - build a minimal perfect hash function

Usage: %s [options] build KEYS.BIN VALUES.BIN OUT ALPHA LAMBDA [SEED]

KEYS.BIN and VALUES.BIN hold "u64 count" followed by count little-endian
elements (u64 keys, u16 values). OUT receives the serialized PHF container
followed by the reordered values trailer.

Options:
`, os.Args[0], os.Args[0])

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.SetOutput(os.Stdout)
	fs.BoolVarP(&opt.verbose, "verbose", "V", false, "Show verbose build progress")
	fs.BoolVarP(&opt.add, "add", "a", false, "Use additive displacement instead of xor")
	fs.Usage = func() {
		fmt.Print(usage)
		fs.PrintDefaults()
		os.Exit(0)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		die("%s", err)
	}

	args := fs.Args()
	if len(args) < 1 || args[0] != "build" {
		fmt.Print(usage)
		fs.PrintDefaults()
		os.Exit(0)
	}
	args = args[1:]
	if len(args) < 5 {
		die("build requires KEYS.BIN VALUES.BIN OUT ALPHA LAMBDA [SEED]")
	}

	keysPath, valuesPath, outPath := args[0], args[1], args[2]
	alpha, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		die("invalid alpha: %s", err)
	}
	lambda, err := strconv.ParseFloat(args[4], 64)
	if err != nil {
		die("invalid lambda: %s", err)
	}
	seed := core.InvalidSeed
	if len(args) >= 6 {
		s, err := strconv.ParseUint(args[5], 10, 64)
		if err != nil {
			die("invalid seed: %s", err)
		}
		seed = s
	}

	if err := run(keysPath, valuesPath, outPath, alpha, lambda, seed, opt); err != nil {
		die("%s", err)
	}
}

type options struct {
	verbose bool
	add     bool
}

func run(keysPath, valuesPath, outPath string, alpha, lambda float64, seed uint64, opt options) error {
	keys, err := readU64Vec(keysPath)
	if err != nil {
		return fmt.Errorf("reading keys: %w", err)
	}
	values, err := readU16Vec(valuesPath)
	if err != nil {
		return fmt.Errorf("reading values: %w", err)
	}
	if len(values) != len(keys) {
		return fmt.Errorf("key count %d does not match value count %d", len(keys), len(values))
	}

	config := core.DefaultBuildConfig()
	config.Alpha = alpha
	config.Lambda = lambda
	config.Seed = seed
	config.Verbose = opt.verbose
	if opt.add {
		config.Search = core.SearchTypeAdd
	}

	phf, err := pthash.Build(keys, config, 64)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	reordered := make([]uint16, len(keys))
	for i, k := range keys {
		reordered[phf.Lookup(k)] = values[i]
	}

	phfBytes, err := phf.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshaling PHF: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := out.Write(phfBytes); err != nil {
		return fmt.Errorf("writing PHF container: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, uint64(len(reordered))); err != nil {
		return fmt.Errorf("writing value_count: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, reordered); err != nil {
		return fmt.Errorf("writing values trailer: %w", err)
	}
	return nil
}

func readU64Vec(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var count uint64
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]uint64, count)
	if err := binary.Read(f, binary.LittleEndian, out); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}

func readU16Vec(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var count uint64
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	if err := binary.Read(f, binary.LittleEndian, out); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}

func die(f string, v ...interface{}) {
	s := fmt.Sprintf(f, v...)
	fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], s)
	os.Exit(1)
}
