package output

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"dla/internal/core"
)

var npyMagic = []byte("\x93NUMPY")

// MaxNPYCells bounds the grids ReadNPY accepts, 2^28 cells (256 MiB as bytes).
const MaxNPYCells = 1 << 28

// ErrNPYFormat reports a file that is not a 2D .npy array this package reads.
var ErrNPYFormat = errors.New("unsupported npy file")

// WriteNPY encodes g as a C-ordered uint8 array of shape (H, W) in NumPy
// format version 1.0.
func WriteNPY(w io.Writer, g *core.ByteGrid) error {
	header := fmt.Sprintf("{'descr': '|u1', 'fortran_order': False, 'shape': (%d, %d), }", g.H, g.W)
	// magic(6) + version(2) + length(2) + header + '\n' must be a multiple of 64.
	total := 10 + len(header) + 1
	if rem := total % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)
	bw.Write(g.Cells())
	return bw.Flush()
}

var (
	descrRe = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	orderRe = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapeRe = regexp.MustCompile(`'shape':\s*\((\d+),\s*(\d+),?\s*\)`)
)

// ReadNPY decodes a 2D .npy array into an occupancy grid; any non-zero value
// becomes 1. It accepts the byte, bool, int32, int64 and float64 layouts
// that NumPy produces for occupancy matrices.
func ReadNPY(r io.Reader) (*core.ByteGrid, error) {
	br := bufio.NewReader(r)
	prefix := make([]byte, 8)
	if _, err := io.ReadFull(br, prefix); err != nil {
		return nil, fmt.Errorf("reading npy preamble: %w", err)
	}
	if !bytes.Equal(prefix[:6], npyMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrNPYFormat)
	}
	var hlen int
	switch prefix[6] {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("reading npy header length: %w", err)
		}
		hlen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("reading npy header length: %w", err)
		}
		hlen = int(n)
	default:
		return nil, fmt.Errorf("%w: version %d.%d", ErrNPYFormat, prefix[6], prefix[7])
	}
	header := make([]byte, hlen)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("reading npy header: %w", err)
	}

	descr := descrRe.FindSubmatch(header)
	order := orderRe.FindSubmatch(header)
	shape := shapeRe.FindSubmatch(header)
	if descr == nil || order == nil || shape == nil {
		return nil, fmt.Errorf("%w: header %q", ErrNPYFormat, strings.TrimSpace(string(header)))
	}
	if string(order[1]) == "True" {
		return nil, fmt.Errorf("%w: fortran order", ErrNPYFormat)
	}
	h, errH := strconv.Atoi(string(shape[1]))
	w, errW := strconv.Atoi(string(shape[2]))
	if errH != nil || errW != nil || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: shape (%s, %s)", ErrNPYFormat, shape[1], shape[2])
	}
	if h > MaxNPYCells/w {
		return nil, fmt.Errorf("%w: shape (%d, %d) exceeds %d cells", ErrNPYFormat, h, w, MaxNPYCells)
	}

	var elem int
	var nonZero func([]byte) bool
	switch string(descr[1]) {
	case "|u1", "|i1", "|b1":
		elem = 1
		nonZero = func(b []byte) bool { return b[0] != 0 }
	case "<i4", "<u4":
		elem = 4
		nonZero = func(b []byte) bool { return binary.LittleEndian.Uint32(b) != 0 }
	case "<i8", "<u8":
		elem = 8
		nonZero = func(b []byte) bool { return binary.LittleEndian.Uint64(b) != 0 }
	case "<f8":
		elem = 8
		nonZero = func(b []byte) bool { return math.Float64frombits(binary.LittleEndian.Uint64(b)) != 0 }
	default:
		return nil, fmt.Errorf("%w: dtype %s", ErrNPYFormat, descr[1])
	}

	buf := make([]byte, elem)
	cells := make([]uint8, w*h)
	for i := range cells {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("reading npy data: %w", err)
		}
		if nonZero(buf) {
			cells[i] = 1
		}
	}
	return core.FromCells(w, h, cells), nil
}
