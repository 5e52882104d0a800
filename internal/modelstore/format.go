// Package modelstore serializes engine.Model snapshots to the
// MegaHALv8-compatible binary layout described in spec.md §6 and persists
// them through internal/objectstore.
package modelstore

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"megahal/internal/engine"
	"megahal/internal/symbol"
	"megahal/internal/trie"
)

// magic identifies the on-disk format: "MegaHALv8" in the original, kept
// verbatim since the layout (order byte, pre-order trie dumps, dictionary)
// is otherwise unchanged.
const magic = "MegaHALv8"

// ErrBadMagic is returned when decoding data that doesn't start with magic.
var ErrBadMagic = errors.New("modelstore: not a recognized model snapshot")

// Encode serializes m into the MegaHALv8 layout: magic, order byte, a
// pre-order dump of the forward tree, a pre-order dump of the backward tree,
// then the symbol dictionary in id order. All multi-byte integers are
// little-endian.
func Encode(m *engine.Model) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(byte(m.Order))

	if err := encodeNode(&buf, m.Forward.Root); err != nil {
		return nil, err
	}
	if err := encodeNode(&buf, m.Backward.Root); err != nil {
		return nil, err
	}
	if err := encodeDictionary(&buf, m.Symbols.Words()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(w *bytes.Buffer, n *trie.Node) error {
	var header [10]byte
	binary.LittleEndian.PutUint16(header[0:2], uint16(n.Symbol))
	binary.LittleEndian.PutUint32(header[2:6], n.Usage)
	binary.LittleEndian.PutUint16(header[6:8], n.Count)
	binary.LittleEndian.PutUint16(header[8:10], uint16(n.Branch()))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	for _, child := range n.Children() {
		if err := encodeNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

func encodeDictionary(w *bytes.Buffer, words []string) error {
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(words)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}
	for _, word := range words {
		if len(word) > symbol.MaxWordLen {
			return fmt.Errorf("modelstore: word %q exceeds max length", word)
		}
		if err := w.WriteByte(byte(len(word))); err != nil {
			return err
		}
		if _, err := w.WriteString(word); err != nil {
			return err
		}
	}
	return nil
}

// Decode parses data produced by Encode back into an engine.Model. The
// model's random source is left at its default (time-seeded); callers that
// need determinism should call SetRand afterward.
func Decode(data []byte) (*engine.Model, error) {
	r := bufio.NewReader(bytes.NewReader(data))

	hdr := make([]byte, len(magic))
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("modelstore: read magic: %w", err)
	}
	if string(hdr) != magic {
		return nil, ErrBadMagic
	}

	orderByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("modelstore: read order: %w", err)
	}

	fwdRoot, err := decodeNode(r)
	if err != nil {
		return nil, fmt.Errorf("modelstore: decode forward tree: %w", err)
	}
	bwdRoot, err := decodeNode(r)
	if err != nil {
		return nil, fmt.Errorf("modelstore: decode backward tree: %w", err)
	}
	words, err := decodeDictionary(r)
	if err != nil {
		return nil, fmt.Errorf("modelstore: decode dictionary: %w", err)
	}

	table, err := symbol.FromWords(words)
	if err != nil {
		return nil, err
	}

	m := engine.NewModel(int(orderByte))
	m.Symbols = table
	m.Forward = &trie.Tree{Root: fwdRoot}
	m.Backward = &trie.Tree{Root: bwdRoot}
	return m, nil
}

func decodeNode(r *bufio.Reader) (*trie.Node, error) {
	var header [10]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	sym := symbol.ID(binary.LittleEndian.Uint16(header[0:2]))
	usage := binary.LittleEndian.Uint32(header[2:6])
	count := binary.LittleEndian.Uint16(header[6:8])
	branch := binary.LittleEndian.Uint16(header[8:10])

	n := trie.NewNode(sym, count, usage)
	for i := uint16(0); i < branch; i++ {
		child, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		n.AppendChild(child)
	}
	return n, nil
}

func decodeDictionary(r *bufio.Reader) ([]string, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(sizeBuf[:])

	words := make([]string, size)
	for i := range words {
		length, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		words[i] = string(buf)
	}
	return words, nil
}
