package midi

/*
Reader is a forward-only reader over the bytes of a MIDI file. Integers are
stored most-significant byte first. Every read that runs past the end of the
data returns a truncation FormatError carrying the offset of the failed read.
*/
type Reader struct {
	data   []byte
	offset int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) checkRead(amount int) error {
	if r.offset+amount > len(r.data) {
		return &FormatError{Msg: "file is truncated", Offset: r.offset, truncated: true}
	}
	return nil
}

// Peek returns the next byte without consuming it.
func (r *Reader) Peek() (byte, error) {
	if err := r.checkRead(1); err != nil {
		return 0, err
	}
	return r.data[r.offset], nil
}

func (r *Reader) ReadByte() (byte, error) {
	if err := r.checkRead(1); err != nil {
		return 0, err
	}
	b := r.data[r.offset]
	r.offset++
	return b, nil
}

// ReadBytes returns a copy of the next amount bytes.
func (r *Reader) ReadBytes(amount int) ([]byte, error) {
	if amount < 0 {
		return nil, formatErrorf(r.offset, "negative read length %d", amount)
	}
	if err := r.checkRead(amount); err != nil {
		return nil, err
	}
	result := make([]byte, amount)
	copy(result, r.data[r.offset:r.offset+amount])
	r.offset += amount
	return result, nil
}

func (r *Reader) ReadShort() (int, error) {
	if err := r.checkRead(2); err != nil {
		return 0, err
	}
	x := int(r.data[r.offset])<<8 | int(r.data[r.offset+1])
	r.offset += 2
	return x, nil
}

func (r *Reader) ReadInt() (int, error) {
	if err := r.checkRead(4); err != nil {
		return 0, err
	}
	d := r.data[r.offset : r.offset+4]
	x := int(d[0])<<24 | int(d[1])<<16 | int(d[2])<<8 | int(d[3])
	r.offset += 4
	return x, nil
}

func (r *Reader) ReadAscii(length int) (string, error) {
	if err := r.checkRead(length); err != nil {
		return "", err
	}
	s := string(r.data[r.offset : r.offset+length])
	r.offset += length
	return s, nil
}

// ReadVarlen reads a variable length quantity of at most 4 bytes. Each byte
// except the last has its high bit set.
func (r *Reader) ReadVarlen() (int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	result := int(b & sevenBitMask)
	for i := 0; i < 3 && b&msbMask != 0; i++ {
		if b, err = r.ReadByte(); err != nil {
			return 0, err
		}
		result = result<<7 + int(b&sevenBitMask)
	}
	return result, nil
}

func (r *Reader) Skip(amount int) error {
	if err := r.checkRead(amount); err != nil {
		return err
	}
	r.offset += amount
	return nil
}

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// EncodeVarlen is the inverse of ReadVarlen. Values must be below 2^28.
func EncodeVarlen(value int) []byte {
	if value>>7 == 0 {
		return []byte{byte(value)}
	}
	if value>>14 == 0 {
		return []byte{byte(value>>7 | msbMask), byte(value & sevenBitMask)}
	}
	if value>>21 == 0 {
		return []byte{
			byte(value>>14 | msbMask),
			byte(value>>7&sevenBitMask | msbMask),
			byte(value & sevenBitMask),
		}
	}
	return []byte{
		byte(value>>21&sevenBitMask | msbMask),
		byte(value>>14&sevenBitMask | msbMask),
		byte(value>>7&sevenBitMask | msbMask),
		byte(value & sevenBitMask),
	}
}
