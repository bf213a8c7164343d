package cherenkov

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// WriteEvent emits an event in the subset of the IACT format that
// [Read] consumes. Tests and the fixture generator use it; real files
// come from the CORSIKA IACT extension.
func WriteEvent(w io.Writer, ev *Event) error {
	if len(ev.Telescopes) > 0 {
		var body bytes.Buffer
		binary.Write(&body, binary.LittleEndian, int32(len(ev.Telescopes)))
		for _, tel := range ev.Telescopes {
			putF32(&body, tel.XCm, tel.YCm, tel.ZCm, tel.RCm)
		}
		if err := writeObject(w, typeTelescopePositions, true, body.Bytes()); err != nil {
			return err
		}
	}

	var photons bytes.Buffer
	binary.Write(&photons, binary.LittleEndian, int16(0)) // array index
	binary.Write(&photons, binary.LittleEndian, int16(0))                 // telescope index
	binary.Write(&photons, binary.LittleEndian, float32(len(ev.Photons))) // photon sum, bunch size 1
	binary.Write(&photons, binary.LittleEndian, int32(len(ev.Photons)))
	for _, p := range ev.Photons {
		putF32(&photons, p.XCm, p.YCm, p.CosX, p.CosY, p.TimeNs, p.EmissionHeightCm, p.Bunch, p.WavelengthNm)
	}

	var container bytes.Buffer
	if err := writeObject(&container, typePhotons, false, photons.Bytes()); err != nil {
		return err
	}
	return writeObject(w, typeTelescopeData, true, container.Bytes())
}

func writeObject(w io.Writer, typ int, topLevel bool, payload []byte) error {
	if topLevel {
		if err := binary.Write(w, binary.LittleEndian, uint32(syncMarker)); err != nil {
			return err
		}
	}
	header := []uint32{uint32(typ), 0, uint32(len(payload)) & lengthMask}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func putF32(buf *bytes.Buffer, values ...float64) {
	for _, v := range values {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(float32(v)))
	}
}
