// Command fmindex-demo builds a bidirectional FM-index from a rank-alphabet
// text file, writes the sequence manifest sidecar, and searches every query
// from a second file against it, printing one line per hit with seqIds
// resolved back to names. It is a stand-in for the external driver spec.md
// 6 treats as a collaborator, not part of the core itself.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/eseiler/fmindex-collection/csa"
	"github.com/eseiler/fmindex-collection/fmindex"
	"github.com/eseiler/fmindex-collection/locate"
	"github.com/eseiler/fmindex-collection/manifest"
	"github.com/eseiler/fmindex-collection/occtable"
	"github.com/eseiler/fmindex-collection/sabuild"
	"github.com/eseiler/fmindex-collection/search"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "fmindex-demo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("fmindex-demo", flag.ContinueOnError)
	flagSet.Usage = func() {
		w := flagSet.Output()
		fmt.Fprintf(w, "Usage: fmindex-demo --text FILE --queries FILE [options]\n\n")
		fmt.Fprintf(w, "Each file holds one rank-alphabet sequence per line, symbols as\n")
		fmt.Fprintf(w, "whitespace-separated decimal integers in [1,sigma).\n\n")
		flagSet.PrintDefaults()
	}

	textPath := flagSet.String("text", "", "rank-alphabet text file, one sequence per line")
	queryPath := flagSet.String("queries", "", "rank-alphabet query file, one query per line")
	sigma := flagSet.IntP("sigma", "s", 5, "alphabet size, including the sentinel")
	maxK := flagSet.IntP("max-errors", "k", 0, "maximum error count")
	edit := flagSet.Bool("edit", false, "search edit distance instead of Hamming distance")
	best := flagSet.Bool("best", false, "stop at the smallest error count that yields a hit")
	samplingRate := flagSet.Uint64("sampling-rate", 4, "suffix-array sampling rate")
	layout := flagSet.String("layout", "eprv3", "occtable layout: naive|persymbol|wavelet|eprv3|interleaved")
	manifestPath := flagSet.String("manifest", "", "manifest sidecar path (default: <text>.manifest.json)")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if *textPath == "" || *queryPath == "" {
		flagSet.Usage()
		return fmt.Errorf("--text and --queries are required")
	}

	sequences, err := readRankSequences(*textPath)
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}
	queries, err := readRankSequences(*queryPath)
	if err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}

	newTable, err := resolveLayout(*layout)
	if err != nil {
		return err
	}

	idx, err := buildIndex(sequences, *sigma, *samplingRate, newTable)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	m := buildManifest(*sigma, *textPath, sequences)
	sidecarPath := *manifestPath
	if sidecarPath == "" {
		sidecarPath = *textPath + ".manifest.json"
	}
	if err := writeManifest(sidecarPath, m); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	mode := search.ModeHamming
	if *edit {
		mode = search.ModeEdit
	}
	opts := search.Options{
		Generator: "backtracking",
		MinK:      0,
		MaxK:      *maxK,
		Mode:      mode,
		BestHits:  *best,
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for qid, q := range queries {
		_, err := search.ForQuery(idx, qid, q, opts, func(h search.QueryHit) {
			for _, p := range locate.Linear(idx, h.Cursor.Lb, h.Cursor.Count()) {
				name, err := m.SeqName(p.SeqID)
				if err != nil {
					name = fmt.Sprintf("seq%d", p.SeqID)
				}
				fmt.Fprintf(out, "%d\t%s\t%d\t%d\n", qid, name, p.Pos, h.Errors)
			}
		})
		if err != nil {
			return fmt.Errorf("query %d: %w", qid, err)
		}
	}
	return nil
}

// buildManifest names each sequence after its source file and line number,
// the only identity readRankSequences' plain rank-alphabet format carries.
func buildManifest(sigma int, textPath string, sequences [][]uint8) manifest.Manifest {
	base := filepath.Base(textPath)
	entries := make([]manifest.SequenceEntry, len(sequences))
	for i, seq := range sequences {
		entries[i] = manifest.SequenceEntry{
			Name:   fmt.Sprintf("%s#%d", base, i),
			Length: uint64(len(seq)),
		}
	}
	return manifest.New(sigma, "fmindex-demo", time.Now(), entries)
}

func writeManifest(path string, m manifest.Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.Write(f)
}

func resolveLayout(name string) (fmindex.TableConstructor, error) {
	switch name {
	case "naive":
		return occtable.NaiveTable, nil
	case "persymbol":
		return occtable.PerSymbolTable, nil
	case "wavelet":
		return occtable.WaveletTable, nil
	case "eprv3":
		return occtable.EPRTable, nil
	case "interleaved":
		return occtable.InterleavedEPRTable, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}

func buildIndex(sequences [][]uint8, sigma int, samplingRate uint64, newTable fmindex.TableConstructor) (*fmindex.BiFMIndex, error) {
	res, err := sabuild.Build(sequences)
	if err != nil {
		return nil, err
	}

	reversed := make([][]uint8, len(sequences))
	for s, seq := range sequences {
		r := make([]uint8, len(seq))
		for i, c := range seq {
			r[len(seq)-1-i] = c
		}
		reversed[s] = r
	}
	revRes, err := sabuild.Build(reversed)
	if err != nil {
		return nil, err
	}

	sampler, err := csa.Build(res.SA, res.SeqLens, samplingRate, false)
	if err != nil {
		return nil, err
	}
	return fmindex.NewBiFMIndex(res.BWT, revRes.BWT, sigma, newTable, sampler)
}

func readRankSequences(path string) ([][]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sequences [][]uint8
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		seq := make([]uint8, len(fields))
		for i, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid symbol %q: %w", path, field, err)
			}
			seq[i] = uint8(v)
		}
		sequences = append(sequences, seq)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sequences, nil
}
