package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// The texmex vector formats: every row is a little-endian int32 component
// count followed by that many 4-byte components, float32 in .fvecs files
// and int32 in .ivecs files.

// ReadFvecs decodes a .fvecs file into float32 vectors.
func ReadFvecs(path string) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fvecs file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	var vecs [][]float32
	dim := 0

	for {
		d, err := readRowDim(r, len(vecs), &dim)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 4*d)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("truncated vector at row %d: %w", len(vecs), err)
		}
		vec := make([]float32, d)
		for i := range vec {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		vecs = append(vecs, vec)
	}

	if len(vecs) == 0 {
		return nil, fmt.Errorf("fvecs file %s holds no vectors", path)
	}
	return vecs, nil
}

// ReadIvecs decodes a .ivecs file into int32 vectors.
func ReadIvecs(path string) ([][]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ivecs file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	var vecs [][]int32
	dim := 0

	for {
		d, err := readRowDim(r, len(vecs), &dim)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		buf := make([]byte, 4*d)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("truncated vector at row %d: %w", len(vecs), err)
		}
		vec := make([]int32, d)
		for i := range vec {
			vec[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		vecs = append(vecs, vec)
	}

	if len(vecs) == 0 {
		return nil, fmt.Errorf("ivecs file %s holds no vectors", path)
	}
	return vecs, nil
}

// readRowDim reads one row header and enforces a positive dimension that
// stays constant across the file. io.EOF marks a clean end of file.
func readRowDim(r io.Reader, row int, dim *int) (int, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("read header at row %d: %w", row, err)
	}

	d := int(int32(binary.LittleEndian.Uint32(hdr[:])))
	if d <= 0 {
		return 0, fmt.Errorf("invalid dimension %d at row %d", d, row)
	}
	if *dim == 0 {
		*dim = d
	} else if d != *dim {
		return 0, fmt.Errorf("inconsistent dimension at row %d: got %d, want %d", row, d, *dim)
	}
	return d, nil
}

// WriteFvecs encodes float32 vectors into a .fvecs file.
func WriteFvecs(path string, vecs [][]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fvecs file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	var buf [4]byte
	for _, vec := range vecs {
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(len(vec))))
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("write fvecs header: %w", err)
		}
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			if _, err := w.Write(buf[:]); err != nil {
				return fmt.Errorf("write fvecs value: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush fvecs file: %w", err)
	}
	return nil
}

// WriteIvecs encodes int32 vectors into a .ivecs file.
func WriteIvecs(path string, vecs [][]int32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ivecs file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	var buf [4]byte
	for _, vec := range vecs {
		binary.LittleEndian.PutUint32(buf[:], uint32(int32(len(vec))))
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("write ivecs header: %w", err)
		}
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf[:], uint32(v))
			if _, err := w.Write(buf[:]); err != nil {
				return fmt.Errorf("write ivecs value: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush ivecs file: %w", err)
	}
	return nil
}
