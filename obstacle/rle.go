package obstacle

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pthm-cable/windtunnel/lbm"
)

// ErrMaskSize is returned when a decoded mask does not match the lattice.
var ErrMaskSize = errors.New("mask size does not match lattice")

// EncodeRLE writes codes as comma-separated runs. A run of one is written as
// its value, longer runs as value:count.
func EncodeRLE(codes []uint8) string {
	if len(codes) == 0 {
		return ""
	}

	var sb strings.Builder
	write := func(v uint8, n int) {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(v)))
		if n > 1 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(n))
		}
	}

	last, run := codes[0], 1
	for _, v := range codes[1:] {
		if v == last {
			run++
			continue
		}
		write(last, run)
		last, run = v, 1
	}
	write(last, run)
	return sb.String()
}

// DecodeRLE parses the format written by EncodeRLE. Whitespace around
// entries is ignored.
func DecodeRLE(s string) ([]uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var codes []uint8
	for i, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		value, count, hasCount := strings.Cut(entry, ":")

		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("entry %d %q: %w", i, entry, err)
		}
		n := 1
		if hasCount {
			n, err = strconv.Atoi(count)
			if err != nil {
				return nil, fmt.Errorf("entry %d %q: %w", i, entry, err)
			}
			if n < 1 {
				return nil, fmt.Errorf("entry %d %q: run length must be positive", i, entry)
			}
		}
		for j := 0; j < n; j++ {
			codes = append(codes, uint8(v))
		}
	}
	return codes, nil
}

// Codes returns the numeric barrier code of every cell.
func Codes(l *lbm.Lattice) []uint8 {
	codes := make([]uint8, len(l.Cells))
	for i, c := range l.Cells {
		codes[i] = c.Code()
	}
	return codes
}

// ApplyCodes replaces the barrier mask with codes. Codes on the two outer
// rings are ignored.
func ApplyCodes(l *lbm.Lattice, codes []uint8) error {
	if len(codes) != l.Len() {
		return fmt.Errorf("%w: %d codes for %dx%d", ErrMaskSize, len(codes), l.Width, l.Height)
	}
	Clear(l)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			code := codes[l.Index(x, y)]
			if code == 0 {
				continue
			}
			Set(l, x, y, lbm.CellFromCode(code))
		}
	}
	l.OrientPorts()
	return nil
}

// LoadMaskFile reads an RLE mask from disk.
func LoadMaskFile(path string) ([]uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mask file: %w", err)
	}
	codes, err := DecodeRLE(string(data))
	if err != nil {
		return nil, fmt.Errorf("decoding mask file %s: %w", path, err)
	}
	return codes, nil
}

// SaveMaskFile writes the lattice's barrier mask as RLE.
func SaveMaskFile(path string, l *lbm.Lattice) error {
	if err := os.WriteFile(path, []byte(EncodeRLE(Codes(l))+"\n"), 0644); err != nil {
		return fmt.Errorf("writing mask file: %w", err)
	}
	return nil
}
