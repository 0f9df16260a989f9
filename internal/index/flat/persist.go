package flat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// On-disk layout, little-endian:
//
//	magic   uint32  "PCFI"
//	version uint32
//	dim     uint32
//	count   uint32
//	count*dim float32 vector data in position order
const (
	indexMagic   uint32 = 0x50434649
	indexVersion uint32 = 1
)

// Save persists the index to path atomically (write to a temp file,
// then rename).
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	w := bufio.NewWriter(f)
	header := []uint32{indexMagic, indexVersion, uint32(ix.dimension), uint32(len(ix.vectors))}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("write index header: %w", err)
		}
	}

	buf := make([]byte, 4)
	for _, v := range ix.vectors {
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := w.Write(buf); err != nil {
				f.Close()
				os.Remove(tmp)
				return fmt.Errorf("write vector data: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush index file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

// Load reads an index previously written by Save. Unknown magic or
// version numbers fail rather than guessing at the layout.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, version, dim, count uint32
	for _, field := range []*uint32{&magic, &version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("read index header: %w", err)
		}
	}

	if magic != indexMagic {
		return nil, fmt.Errorf("not an index file: magic %#x", magic)
	}
	if version != indexVersion {
		return nil, fmt.Errorf("unsupported index version %d", version)
	}

	ix, err := New(int(dim))
	if err != nil {
		return nil, fmt.Errorf("corrupt index header: dimension %d", dim)
	}

	buf := make([]byte, 4)
	ix.vectors = make([][]float32, count)
	for i := range ix.vectors {
		v := make([]float32, dim)
		for j := range v {
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("read vector data: %w", err)
			}
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf))
		}
		ix.vectors[i] = v
	}

	return ix, nil
}
