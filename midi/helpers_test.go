package midi

import (
	"bytes"
	"encoding/binary"
)

func ev(delta int, data ...byte) []byte {
	return append(EncodeVarlen(delta), data...)
}

func trackChunk(events ...[]byte) []byte {
	var body []byte
	for _, e := range events {
		body = append(body, e...)
	}
	buf := new(bytes.Buffer)
	buf.WriteString("MTrk")
	binary.Write(buf, binary.BigEndian, uint32(len(body)))
	buf.Write(body)
	return buf.Bytes()
}

func midiBytes(mode, quarter int, tracks ...[]byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("MThd")
	binary.Write(buf, binary.BigEndian, uint32(6))
	binary.Write(buf, binary.BigEndian, uint16(mode))
	binary.Write(buf, binary.BigEndian, uint16(len(tracks)))
	binary.Write(buf, binary.BigEndian, uint16(quarter))
	for _, t := range tracks {
		buf.Write(t)
	}
	return buf.Bytes()
}

func endOfTrack() []byte {
	return ev(0, 0xFF, 0x2F, 0)
}

// simpleMelody is one track on channel 0: C D E F, one quarter each.
func simpleMelody(quarter int) []byte {
	var events [][]byte
	for _, n := range []byte{60, 62, 64, 65} {
		events = append(events, ev(0, 0x90, n, 100), ev(quarter, 0x80, n, 0))
	}
	events = append(events, endOfTrack())
	return trackChunk(events...)
}

func notesOf(numbers ...int) []Note {
	var notes []Note
	for i, n := range numbers {
		notes = append(notes, Note{StartTime: i * 100, Number: n, Duration: 100})
	}
	return notes
}
