// Package table builds Arrow record batches from parsed CORSIKA data.
//
// Tracks and photon bunches become columnar records with named, typed
// fields so downstream analysis tools can consume a run without
// knowing anything about Fortran record framing. Records serialize to
// Arrow IPC files via [WriteIPCFile].
package table

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/showerpipe/showerpipe/internal/cherenkov"
	"github.com/showerpipe/showerpipe/internal/corsika"
	"github.com/showerpipe/showerpipe/internal/track"
)

// TracksSchema is the column layout of a particle track record batch.
var TracksSchema = arrow.NewSchema([]arrow.Field{
	{Name: "channel", Type: arrow.BinaryTypes.String},
	{Name: "particle", Type: arrow.BinaryTypes.String},
	{Name: "particle_id", Type: arrow.PrimitiveTypes.Int32},
	{Name: "energy_gev", Type: arrow.PrimitiveTypes.Float32},
	{Name: "x_start", Type: arrow.PrimitiveTypes.Float32},
	{Name: "y_start", Type: arrow.PrimitiveTypes.Float32},
	{Name: "z_start", Type: arrow.PrimitiveTypes.Float32},
	{Name: "t_start", Type: arrow.PrimitiveTypes.Float32},
	{Name: "x_end", Type: arrow.PrimitiveTypes.Float32},
	{Name: "y_end", Type: arrow.PrimitiveTypes.Float32},
	{Name: "z_end", Type: arrow.PrimitiveTypes.Float32},
	{Name: "t_end", Type: arrow.PrimitiveTypes.Float32},
}, nil)

// PhotonsSchema is the column layout of a Cherenkov photon record
// batch, matching the bunch fields of the IACT output.
var PhotonsSchema = arrow.NewSchema([]arrow.Field{
	{Name: "x_impact_cm", Type: arrow.PrimitiveTypes.Float32},
	{Name: "y_impact_cm", Type: arrow.PrimitiveTypes.Float32},
	{Name: "cos_incident_x", Type: arrow.PrimitiveTypes.Float32},
	{Name: "cos_incident_y", Type: arrow.PrimitiveTypes.Float32},
	{Name: "time_since_first_interaction_ns", Type: arrow.PrimitiveTypes.Float32},
	{Name: "emission_height_asl_cm", Type: arrow.PrimitiveTypes.Float32},
	{Name: "wavelength_nm", Type: arrow.PrimitiveTypes.Float32},
}, nil)

// TracksRecord builds a record batch from track segments. The caller
// owns the returned record and must Release it.
func TracksRecord(tracks []track.Track) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, TracksSchema)
	defer b.Release()

	for _, tr := range tracks {
		b.Field(0).(*array.StringBuilder).Append(string(tr.Channel))
		b.Field(1).(*array.StringBuilder).Append(corsika.ParticleName(tr.ParticleID))
		b.Field(2).(*array.Int32Builder).Append(int32(tr.ParticleID))
		for i, v := range []float64{
			tr.EnergyGeV,
			tr.StartX, tr.StartY, tr.StartZ, tr.StartT,
			tr.EndX, tr.EndY, tr.EndZ, tr.EndT,
		} {
			b.Field(3 + i).(*array.Float32Builder).Append(float32(v))
		}
	}
	return b.NewRecord()
}

// PhotonsRecord builds a record batch from photon bunches. The bunch
// weight column is dropped, as with bunch size one it carries no
// information. The caller owns the returned record.
func PhotonsRecord(photons []cherenkov.Photon) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, PhotonsSchema)
	defer b.Release()

	for _, p := range photons {
		for i, v := range []float64{
			p.XCm, p.YCm, p.CosX, p.CosY, p.TimeNs, p.EmissionHeightCm, p.WavelengthNm,
		} {
			b.Field(i).(*array.Float32Builder).Append(float32(v))
		}
	}
	return b.NewRecord()
}

// WriteIPCFile serializes a record to an Arrow IPC stream file.
func WriteIPCFile(path string, record arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := ipc.NewWriter(f, ipc.WithSchema(record.Schema()))
	if err := w.Write(record); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("table: writing record: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("table: closing writer: %w", err)
	}
	return f.Close()
}

// ReadIPCFile reads the first record back from an IPC stream file.
// The caller owns the returned record.
func ReadIPCFile(path string) (arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := ipc.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("table: opening reader: %w", err)
	}
	defer r.Release()

	if !r.Next() {
		if r.Err() != nil {
			return nil, r.Err()
		}
		return nil, fmt.Errorf("table: no records in %s", path)
	}

	record := r.Record()
	record.Retain()
	return record, nil
}
