package document

import (
	"encoding/binary"
	"math"
	"time"

	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

const (
	fieldKind        = "kind"
	fieldOwner       = "owner"
	fieldTitle       = "title"
	fieldText        = "text"
	fieldState       = "state"
	fieldVector      = "vector"
	fieldVectorHash  = "vector_hash"
	fieldVectorSpace = "vector_space"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *domdoc.Document) map[string]string {
	return map[string]string{
		fieldKind:        string(doc.Kind()),
		fieldOwner:       doc.Owner(),
		fieldTitle:       doc.Title(),
		fieldText:        doc.Text(),
		fieldState:       string(doc.State()),
		fieldVector:      vectorToBytes(doc.Vector()),
		fieldVectorHash:  doc.VectorHash(),
		fieldVectorSpace: doc.VectorSpace(),
		fieldUpdatedAt:   doc.UpdatedAt().Format(time.RFC3339Nano),
	}
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(id string, m map[string]string) domdoc.Document {
	updatedAt, _ := time.Parse(time.RFC3339Nano, m[fieldUpdatedAt])
	return domdoc.Reconstruct(
		domdoc.Kind(m[fieldKind]), id, m[fieldOwner], m[fieldTitle], m[fieldText],
		domdoc.State(m[fieldState]), bytesToVector(m[fieldVector]), m[fieldVectorHash], m[fieldVectorSpace],
		updatedAt,
	)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32. Corrupt data yields nil,
// which makes the document re-embed on next use.
func bytesToVector(s string) []float32 {
	if s == "" || len(s)%4 != 0 {
		return nil
	}
	b := []byte(s)
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
