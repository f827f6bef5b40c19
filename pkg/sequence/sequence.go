// Package sequence normalizes warehouse residues into biogo sequences and
// writes them as FASTA.
package sequence

import (
	"bytes"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

const fastaWidth = 60

// Parse builds a sequence from raw residues. Whitespace is dropped and the
// alphabet is nucleic (IUPAC) when every letter allows it, otherwise protein.
func Parse(id, residues string) (*linear.Seq, error) {
	clean := bytes.ToUpper(bytes.Join(bytes.Fields([]byte(residues)), nil))
	if len(clean) == 0 {
		return nil, fmt.Errorf("sequence %q: no residues", id)
	}
	letters := alphabet.BytesToLetters(clean)
	for _, alpha := range []alphabet.Alphabet{alphabet.DNAredundant, alphabet.Protein} {
		if valid(alpha, letters) {
			return linear.NewSeq(id, letters, alpha), nil
		}
	}
	return nil, fmt.Errorf("sequence %q: residues are neither nucleic nor protein", id)
}

func valid(alpha alphabet.Alphabet, letters []alphabet.Letter) bool {
	for _, l := range letters {
		if !alpha.IsValid(l) {
			return false
		}
	}
	return true
}

// IsNucleic reports whether s was parsed with a nucleic alphabet.
func IsNucleic(s *linear.Seq) bool {
	_, ok := s.Alphabet().(alphabet.Complementor)
	return ok
}

// Residues returns the normalized residue string.
func Residues(s *linear.Seq) string {
	return alphabet.Letters(s.Seq).String()
}

// Writer emits FASTA records with 60-column lines.
type Writer struct {
	w     *fasta.Writer
	count int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: fasta.NewWriter(w, fastaWidth)}
}

func (w *Writer) Write(s *linear.Seq) error {
	if _, err := w.w.Write(s); err != nil {
		return fmt.Errorf("write fasta record %q: %w", s.Name(), err)
	}
	w.count++
	return nil
}

func (w *Writer) Count() int { return w.count }
