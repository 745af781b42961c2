package sstable

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
)

// Uint32Table is any row-major table of uint32 cells, both the dense
// matrix.Uint32Matrix and the SortedMap qualify.
type Uint32Table interface {
	Shape() (uint32, uint32)
	Get(r, c uint32) uint32
	Set(r, c uint32, val uint32)
}

// serialize data to file, the first line holds the shape "rows,cols"
// followed by one "row,col,value" triplet per nonzero cell
func Uint32Serialize(m Uint32Table, fn string) error {
	out, err := os.OpenFile(fn, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	r, c := m.Shape()
	// write the matrix shape
	fmt.Fprintf(w, "%d,%d\n", r, c)

	var val uint32
	for ridx := uint32(0); ridx < r; ridx += 1 {
		for cidx := uint32(0); cidx < c; cidx += 1 {
			val = m.Get(ridx, cidx)
			if val > 0 { // only write out nonzero value
				fmt.Fprintf(w, "%d,%d,%d\n", ridx, cidx, val)
			}
		}
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// deserialize data from file into m, the shape recorded in the file
// must match the shape of m
func Uint32Deserialize(fn string, m Uint32Table) error {
	file, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer file.Close()

	lineIdx := 0
	row, col := m.Shape()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		txt := strings.TrimSpace(scanner.Text())
		lineIdx += 1
		if lineIdx == 1 {
			shape := strings.Split(txt, ",")
			if len(shape) != 2 {
				return fmt.Errorf("table corrupted, shape not found: %s", txt)
			}
			r, err := strconv.ParseUint(shape[0], 10, 32)
			if err != nil {
				return err
			}
			c, err := strconv.ParseUint(shape[1], 10, 32)
			if err != nil {
				return err
			}
			if uint32(r) != row || uint32(c) != col {
				return fmt.Errorf("table shape %dx%d does not match expected %dx%d",
					r, c, row, col)
			}
			continue
		}
		if txt == "" {
			continue
		}

		value := strings.Split(txt, ",")
		if len(value) != 3 {
			log.Warningf("data corrupted, row %d, data %s", lineIdx, txt)
			continue
		}
		ridx, err := strconv.ParseUint(value[0], 10, 32)
		if err != nil {
			return err
		}
		cidx, err := strconv.ParseUint(value[1], 10, 32)
		if err != nil {
			return err
		}
		val, err := strconv.ParseUint(value[2], 10, 32)
		if err != nil {
			return err
		}
		if uint32(ridx) >= row || uint32(cidx) >= col {
			return fmt.Errorf("line %d: cell %d,%d outside %dx%d table",
				lineIdx, ridx, cidx, row, col)
		}
		m.Set(uint32(ridx), uint32(cidx), uint32(val))
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	if lineIdx == 0 {
		return fmt.Errorf("table corrupted, empty file %s", fn)
	}

	return nil
}
