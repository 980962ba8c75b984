package engine

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/atraykov02/bgvision/oracle"
	"github.com/atraykov02/bgvision/ring"
	"github.com/atraykov02/bgvision/rlwe"
)

// HistoryEntry records one successful operation: the names combined, the
// operator, the resulting name, its informational multiplicative depth,
// and a content fingerprint of the result ciphertext.
type HistoryEntry struct {
	Result      string
	LeftOp      string
	RightOp     string
	OpType      string
	Success     bool
	Depth       int
	Fingerprint string
}

// asRecords converts the engine's own history bookkeeping into the
// minimal shape oracle.Evaluate needs to replay a computation.
func asRecords(hist []HistoryEntry) []oracle.HistoryRecord {
	out := make([]oracle.HistoryRecord, len(hist))
	for i, h := range hist {
		out[i] = oracle.HistoryRecord{
			Result:  h.Result,
			LeftOp:  h.LeftOp,
			RightOp: h.RightOp,
			OpType:  h.OpType,
			Success: h.Success,
		}
	}
	return out
}

// fingerprint hashes a ciphertext's coefficient vectors with blake3,
// giving history entries a cheap way to compare or deduplicate results
// without retaining the full big.Int vectors.
func fingerprint(ct *rlwe.Ciphertext) string {
	h := blake3.New()
	writePoly(h, ct.C0)
	writePoly(h, ct.C1)
	if ct.C2 != nil {
		writePoly(h, ct.C2)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writePoly(h *blake3.Hasher, p *ring.Poly) {
	for _, c := range p.Coeffs {
		h.Write(c.Bytes())
		h.Write([]byte{0})
	}
}
