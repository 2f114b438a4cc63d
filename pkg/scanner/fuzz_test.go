package scanner_test

import (
	"testing"

	"github.com/yaklabco/dashgram/pkg/classify"
	"github.com/yaklabco/dashgram/pkg/scanner"
	"github.com/yaklabco/dashgram/pkg/syntax"
)

func FuzzScan(f *testing.F) {
	f.Add([]byte("cat <<EOF\nhello\nEOF\n"), uint8(0))
	f.Add([]byte(`echo "a $(b) c" # x`), uint8(1))
	f.Add([]byte(`$'\'' 'x`), uint8(0))

	all := syntax.TokenSet{^uint64(0), ^uint64(0)}

	f.Fuzz(func(t *testing.T, src []byte, mode uint8) {
		s := scanner.New()
		if m := classify.Mode(mode % 7); m != classify.ModeNone {
			if err := s.Enter(m); err != nil {
				t.Fatal(err)
			}
		}
		for pos := 0; pos <= len(src); pos++ {
			tok, ok := s.Scan(src, pos, all)
			if !ok {
				continue
			}
			if tok.StartOffset != pos || tok.EndOffset < pos || tok.EndOffset > len(src) {
				t.Fatalf("token %+v out of bounds at %d (len %d)", tok, pos, len(src))
			}
		}
	})
}
