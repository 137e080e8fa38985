package eventlog

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"matchbook/engine"
)

// Record is one archived event: its sequence number in the log, the command
// tag, and the textual payload. The binary form is a protowire body behind
// an 8-byte header of little-endian length and CRC-32.
type Record struct {
	Seq  uint64
	Kind uint32
	Data []byte
}

const (
	fieldSeq  = 1
	fieldKind = 2
	fieldData = 3
)

// NewRecord builds the record for an event at the given log sequence.
func NewRecord(seq uint64, ev engine.Event) Record {
	return Record{
		Seq:  seq,
		Kind: uint32(ev.Kind),
		Data: []byte(EncodeLine(ev)),
	}
}

// Event decodes the record payload back into an event.
func (r Record) Event() (engine.Event, error) {
	ev, err := DecodeLine(string(r.Data))
	if err != nil {
		return engine.Event{}, err
	}
	if uint32(ev.Kind) != r.Kind {
		return engine.Event{}, fmt.Errorf("%w: tag mismatch (header %d, payload %d)", ErrCorruptRecord, r.Kind, ev.Kind)
	}
	return ev, nil
}

// Marshal renders the framed binary form.
func (r Record) Marshal() []byte {
	var body []byte
	body = protowire.AppendTag(body, fieldSeq, protowire.VarintType)
	body = protowire.AppendVarint(body, r.Seq)
	body = protowire.AppendTag(body, fieldKind, protowire.VarintType)
	body = protowire.AppendVarint(body, uint64(r.Kind))
	body = protowire.AppendTag(body, fieldData, protowire.BytesType)
	body = protowire.AppendBytes(body, r.Data)

	out := make([]byte, 8, 8+len(body))
	binary.LittleEndian.PutUint32(out[:4], uint32(len(body)))
	binary.LittleEndian.PutUint32(out[4:8], crc32.ChecksumIEEE(body))
	return append(out, body...)
}

// UnmarshalRecord parses one framed record and returns the bytes consumed.
func UnmarshalRecord(buf []byte) (Record, int, error) {
	if len(buf) < 8 {
		return Record{}, 0, ErrCorruptRecord
	}
	size := binary.LittleEndian.Uint32(buf[:4])
	sum := binary.LittleEndian.Uint32(buf[4:8])
	if len(buf) < 8+int(size) {
		return Record{}, 0, ErrCorruptRecord
	}
	body := buf[8 : 8+size]
	if crc32.ChecksumIEEE(body) != sum {
		return Record{}, 0, fmt.Errorf("%w: checksum mismatch", ErrCorruptRecord)
	}

	var rec Record
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return Record{}, 0, ErrCorruptRecord
		}
		body = body[n:]
		switch {
		case num == fieldSeq && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return Record{}, 0, ErrCorruptRecord
			}
			rec.Seq = v
			body = body[n:]
		case num == fieldKind && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return Record{}, 0, ErrCorruptRecord
			}
			rec.Kind = uint32(v)
			body = body[n:]
		case num == fieldData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(body)
			if n < 0 {
				return Record{}, 0, ErrCorruptRecord
			}
			rec.Data = append([]byte(nil), v...)
			body = body[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return Record{}, 0, ErrCorruptRecord
			}
			body = body[n:]
		}
	}
	return rec, 8 + int(size), nil
}

// ReadRecord reads one framed record from r. io.EOF marks a clean end of
// stream.
func ReadRecord(r io.Reader) (Record, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Record{}, ErrCorruptRecord
		}
		return Record{}, err
	}
	size := binary.LittleEndian.Uint32(header[:4])
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Record{}, ErrCorruptRecord
	}
	rec, _, err := UnmarshalRecord(append(header, body...))
	return rec, err
}
