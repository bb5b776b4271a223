package process

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skiprunback/extension/pkg/core"
)

// ParseMaps folds a /proc/<pid>/maps listing into one Module per mapped file.
// Base is the file's first mapping. Size covers only the readable mappings
// that follow it without a gap, so the whole [Base, Base+Size) range can be
// read; a guard page or hole ends the module image.
func ParseMaps(r io.Reader) ([]Module, error) {
	var modules []Module
	index := map[string]int{}
	sealed := map[string]bool{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// address perms offset dev inode [path]
		if len(fields) < 6 || !strings.HasPrefix(fields[5], "/") {
			continue
		}
		path := strings.Join(fields[5:], " ")

		lo, hi, ok := strings.Cut(fields[0], "-")
		if !ok {
			return nil, fmt.Errorf("malformed maps range %q", fields[0])
		}
		start, err := strconv.ParseUint(lo, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed maps start %q: %w", lo, err)
		}
		end, err := strconv.ParseUint(hi, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed maps end %q: %w", hi, err)
		}

		readable := strings.HasPrefix(fields[1], "r")

		if i, seen := index[path]; seen {
			if sealed[path] {
				continue
			}
			m := &modules[i]
			if !readable || start != uint64(m.Base)+m.Size {
				sealed[path] = true
				continue
			}
			m.Size = end - uint64(m.Base)
			continue
		}
		index[path] = len(modules)
		m := Module{
			Name: filepath.Base(path),
			Path: path,
			Base: core.Address(start),
		}
		if readable {
			m.Size = end - start
		} else {
			sealed[path] = true
		}
		modules = append(modules, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read maps: %w", err)
	}
	return modules, nil
}
