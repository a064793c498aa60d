package filepair

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

const formatVersion uint32 = 1

var magic = [4]byte{'C', 'W', 'F', 'I'}

var csvHeader = []string{"id", "text"}

type binHeader struct {
	Magic   [4]byte
	Version uint32
	Dims    uint32
	Count   uint64
}

// writeVectors encodes the vectors of entries in row order.
func writeVectors(w io.Writer, dims int, entries []domain.Entry) error {
	bw := bufio.NewWriter(w)
	header := binHeader{Magic: magic, Version: formatVersion, Dims: uint32(dims), Count: uint64(len(entries))}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	for row, e := range entries {
		if len(e.Vector) != dims {
			return fmt.Errorf("%w: row %d has %d dimensions, index has %d",
				domain.ErrEmbeddingMismatch, row, len(e.Vector), dims)
		}
		if err := binary.Write(bw, binary.LittleEndian, int64(row)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, e.Vector); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// readVectors decodes a vector file. Row ids must be dense and ordered.
func readVectors(r io.Reader) (int, [][]float32, error) {
	br := bufio.NewReader(r)

	var header binHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return 0, nil, fmt.Errorf("read header: %w", err)
	}
	if header.Magic != magic {
		return 0, nil, fmt.Errorf("bad magic %q", header.Magic[:])
	}
	if header.Version != formatVersion {
		return 0, nil, fmt.Errorf("unsupported format version %d", header.Version)
	}

	dims := int(header.Dims)
	var vectors [][]float32
	for i := uint64(0); i < header.Count; i++ {
		var row int64
		if err := binary.Read(br, binary.LittleEndian, &row); err != nil {
			return 0, nil, fmt.Errorf("read row %d: %w", i, err)
		}
		if row != int64(i) {
			return 0, nil, fmt.Errorf("row id %d at position %d", row, i)
		}
		vec := make([]float32, dims)
		if err := binary.Read(br, binary.LittleEndian, vec); err != nil {
			return 0, nil, fmt.Errorf("read row %d: %w", i, err)
		}
		vectors = append(vectors, vec)
	}
	if _, err := br.ReadByte(); !errors.Is(err, io.EOF) {
		return 0, nil, errors.New("trailing data after last row")
	}
	return dims, vectors, nil
}

// writeTexts encodes the texts of entries as id,text rows.
func writeTexts(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for row, e := range entries {
		if err := cw.Write([]string{strconv.Itoa(row), e.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readTexts decodes a text file. Row ids must be dense and ordered.
func readTexts(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != csvHeader[0] || header[1] != csvHeader[1] {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	var texts []string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return texts, nil
		}
		if err != nil {
			return nil, err
		}
		row, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row id %q: %w", record[0], err)
		}
		if row != len(texts) {
			return nil, fmt.Errorf("row id %d at position %d", row, len(texts))
		}
		texts = append(texts, record[1])
	}
}
