// Command lllcmd reads an integer lattice basis from a text file (one
// row per line, whitespace-separated decimal integers) and prints its
// LLL-reduced form, the thin CLI front end SPEC_FULL.md §2 calls for.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"

	"github.com/lllgo/lll/lattice"
	"github.com/lllgo/lll/lll"
)

func main() {
	in := flag.String("in", "", "path to a basis file (one row per line)")
	delta := flag.Float64("delta", 0.99, "Lovász delta")
	eta := flag.Float64("eta", 0.51, "size-reduction eta")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: lllcmd -in basis.txt [-delta 0.99] [-eta 0.51]")
		os.Exit(2)
	}

	rows, err := readBasis(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lllcmd:", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	b := lattice.NewBasisFromRows(rows)
	p := lattice.Params{Delta: *delta, Eta: *eta, Rep: lattice.ZBasis, Gram: lattice.Approx}

	if err := lll.Reduce(b, nil, p, lll.WithLogger(logger)); err != nil {
		fmt.Fprintln(os.Stderr, "lllcmd:", err)
		os.Exit(1)
	}

	for i := 0; i < b.Rows; i++ {
		row := b.Row(i)
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = v.String()
		}
		fmt.Println(strings.Join(parts, " "))
	}
}

func readBasis(path string) ([][]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		row := make([]int64, len(fields))
		for i, f := range fields {
			v, ok := new(big.Int).SetString(f, 10)
			if !ok {
				return nil, fmt.Errorf("lllcmd: invalid integer %q", f)
			}
			row[i] = v.Int64()
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
