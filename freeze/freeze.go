package freeze

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tabscope/tabscope/pkg/errors"
	"github.com/tabscope/tabscope/table"
)

// Canonical serialization tokens and separators. These are fixed: changing
// any of them changes every fingerprint ever computed.
const (
	nullToken   = `\N`
	nanToken    = "NaN"
	posInfToken = "+Inf"
	negInfToken = "-Inf"

	fieldSep  = '\x1f'
	recordSep = '\n'
)

// FreezeRecord is a point-in-time integrity snapshot of a processed dataset.
// Rows, Cols, DTypes and Hash participate in drift comparison; ID and
// FrozenAt identify the snapshot itself and are excluded.
type FreezeRecord struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	DTypes   []string  `json:"dtypes"`
	Hash     string    `json:"hash"`
	FrozenAt time.Time `json:"frozen_at"`
}

// Fingerprinter computes deterministic content hashes for tables. Two tables
// with identical content and column order always yield identical
// fingerprints regardless of when or where they are computed.
type Fingerprinter struct {
	logger zerolog.Logger
}

// NewFingerprinter creates a Fingerprinter.
func NewFingerprinter(logger zerolog.Logger) *Fingerprinter {
	return &Fingerprinter{
		logger: logger.With().Str("component", "fingerprinter").Logger(),
	}
}

// Freeze serializes the table deterministically (stable column order, stable
// row order, canonical value tokens), hashes the bytes with SHA-256 and
// returns a FreezeRecord. All-or-nothing: no record is returned on error.
func (f *Fingerprinter) Freeze(t *table.Table, path string) (*FreezeRecord, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	data, err := canonicalBytes(t)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	record := &FreezeRecord{
		ID:       uuid.NewString(),
		Path:     path,
		Rows:     t.NumRows(),
		Cols:     t.NumCols(),
		DTypes:   t.DTypeTags(),
		Hash:     hex.EncodeToString(sum[:]),
		FrozenAt: time.Now().UTC(),
	}

	f.logger.Debug().
		Str("path", path).
		Int("rows", record.Rows).
		Int("cols", record.Cols).
		Str("hash", record.Hash).
		Msg("Froze dataset")

	return record, nil
}

// canonicalBytes renders the table as: one record of column names, one
// record of dtype tags, then one record per row; fields joined with 0x1F.
func canonicalBytes(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer

	for i := range t.Columns {
		if i > 0 {
			buf.WriteByte(fieldSep)
		}
		name := t.Columns[i].Name
		if err := checkText(name); err != nil {
			return nil, err
		}
		buf.WriteString(name)
	}
	buf.WriteByte(recordSep)

	for i, tag := range t.DTypeTags() {
		if i > 0 {
			buf.WriteByte(fieldSep)
		}
		buf.WriteString(tag)
	}
	buf.WriteByte(recordSep)

	for row := 0; row < t.NumRows(); row++ {
		for col := range t.Columns {
			if col > 0 {
				buf.WriteByte(fieldSep)
			}
			token, err := canonicalValue(&t.Columns[col], row)
			if err != nil {
				return nil, err
			}
			buf.WriteString(token)
		}
		buf.WriteByte(recordSep)
	}

	return buf.Bytes(), nil
}

// canonicalValue returns the stable textual representation of one cell.
// Nulls, NaN and infinities map to fixed tokens so the representation is
// well-defined and stable across runs.
func canonicalValue(c *table.Column, row int) (string, error) {
	if c.IsNull(row) {
		return nullToken, nil
	}

	switch c.DType {
	case table.Integer:
		return strconv.FormatInt(c.Ints[row], 10), nil
	case table.Float:
		v := c.Floats[row]
		switch {
		case math.IsNaN(v):
			return nanToken, nil
		case math.IsInf(v, 1):
			return posInfToken, nil
		case math.IsInf(v, -1):
			return negInfToken, nil
		default:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}
	case table.Text:
		s := c.Texts[row]
		if err := checkText(s); err != nil {
			return "", errors.AsError(err).AddContext("column", c.Name)
		}
		return s, nil
	default:
		return "", errors.Newf(ErrSerializationFailed,
			"column %q has unknown dtype", c.Name)
	}
}

func checkText(s string) error {
	if strings.IndexByte(s, fieldSep) >= 0 || strings.IndexByte(s, recordSep) >= 0 {
		return errors.Newf(ErrSerializationFailed,
			"text value %q contains a reserved separator byte", s)
	}
	return nil
}

// Matches reports whether two records describe the same dataset content.
// Snapshot identity (ID, FrozenAt) and the originating path are excluded;
// the same content frozen from a copied file still matches.
func (r *FreezeRecord) Matches(other *FreezeRecord) bool {
	if r.Rows != other.Rows || r.Cols != other.Cols || r.Hash != other.Hash {
		return false
	}
	if len(r.DTypes) != len(other.DTypes) {
		return false
	}
	for i := range r.DTypes {
		if r.DTypes[i] != other.DTypes[i] {
			return false
		}
	}
	return true
}
