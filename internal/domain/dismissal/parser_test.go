package dismissal

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw          string
		wantKind     Kind
		wantFielders []string
		wantBowler   string
		wantOut      bool
	}{
		{raw: "not out", wantKind: KindNotOut},
		{raw: "", wantKind: KindNotOut},
		{raw: "did not bat", wantKind: KindNotOut},
		{raw: "c Smith b Jones", wantKind: KindCaught, wantFielders: []string{"Smith"}, wantBowler: "Jones", wantOut: true},
		{raw: "c  †Pant   b Bumrah", wantKind: KindCaught, wantFielders: []string{"Pant"}, wantBowler: "Bumrah", wantOut: true},
		{raw: "c sub (Jadeja) b Kumar", wantKind: KindCaught, wantFielders: []string{"Jadeja"}, wantBowler: "Kumar", wantOut: true},
		{raw: "c de Villiers b Steyn", wantKind: KindCaught, wantFielders: []string{"de Villiers"}, wantBowler: "Steyn", wantOut: true},
		{raw: "c & b Ashwin", wantKind: KindCaughtAndBowled, wantFielders: []string{"Ashwin"}, wantBowler: "Ashwin", wantOut: true},
		{raw: "c and b Ashwin", wantKind: KindCaughtAndBowled, wantFielders: []string{"Ashwin"}, wantBowler: "Ashwin", wantOut: true},
		{raw: "st †Dhoni b Jadeja", wantKind: KindStumped, wantFielders: []string{"Dhoni"}, wantBowler: "Jadeja", wantOut: true},
		{raw: "run out (Jadeja)", wantKind: KindRunOut, wantFielders: []string{"Jadeja"}, wantOut: true},
		{raw: "run out Jadeja", wantKind: KindRunOut, wantFielders: []string{"Jadeja"}, wantOut: true},
		{raw: "run out (Jadeja/Dhoni)", wantKind: KindRunOut, wantFielders: []string{"Jadeja", "Dhoni"}, wantOut: true},
		{raw: "run out (sub (Rahul)/†Karthik)", wantKind: KindRunOut, wantFielders: []string{"Rahul", "Karthik"}, wantOut: true},
		{raw: "lbw b Kumar", wantKind: KindLBW, wantBowler: "Kumar", wantOut: true},
		{raw: "b Starc", wantKind: KindBowled, wantBowler: "Starc", wantOut: true},
		{raw: "hit wicket b Rabada", wantKind: KindHitWicket, wantBowler: "Rabada", wantOut: true},
		{raw: "retired hurt", wantKind: KindRetiredHurt},
		{raw: "retired out", wantKind: KindRetiredOut, wantOut: true},
		{raw: "obstructing the field", wantKind: KindOther, wantOut: true},
		{raw: "run out", wantKind: KindMalformed, wantOut: true},
		{raw: "c b Jones", wantKind: KindMalformed, wantBowler: "Jones", wantOut: true},
		{raw: "c & b", wantKind: KindMalformed, wantOut: true},
		{raw: "c Dhoni b B Kumar", wantKind: KindCaught, wantFielders: []string{"Dhoni"}, wantBowler: "B Kumar", wantOut: true},
		{raw: "c B Kumar b Ashwin", wantKind: KindCaught, wantFielders: []string{"B Kumar"}, wantBowler: "Ashwin", wantOut: true},
		{raw: "st †Pant b B Kumar", wantKind: KindStumped, wantFielders: []string{"Pant"}, wantBowler: "B Kumar", wantOut: true},
		{raw: "c Ⱥndré b Starc", wantKind: KindCaught, wantFielders: []string{"Ⱥndré"}, wantBowler: "Starc", wantOut: true},
		{raw: "c ȺȺȺȺȺȺ b X", wantKind: KindCaught, wantFielders: []string{"ȺȺȺȺȺȺ"}, wantBowler: "X", wantOut: true},
		{raw: "c İİİİ b Starc", wantKind: KindCaught, wantFielders: []string{"İİİİ"}, wantBowler: "Starc", wantOut: true},
		{raw: "c & b Ørsted", wantKind: KindCaughtAndBowled, wantFielders: []string{"Ørsted"}, wantBowler: "Ørsted", wantOut: true},
		{raw: "lbw", wantKind: KindMalformed, wantOut: true},
		{raw: "caught behind somewhere", wantKind: KindUnknown, wantOut: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()

			got := Parse(tc.raw)
			if got.Kind != tc.wantKind {
				t.Fatalf("unexpected kind: got=%s want=%s", got.Kind, tc.wantKind)
			}
			if len(got.Fielders) != 0 || len(tc.wantFielders) != 0 {
				if !reflect.DeepEqual(got.Fielders, tc.wantFielders) {
					t.Fatalf("unexpected fielders: got=%q want=%q", got.Fielders, tc.wantFielders)
				}
			}
			if got.Bowler != tc.wantBowler {
				t.Fatalf("unexpected bowler: got=%q want=%q", got.Bowler, tc.wantBowler)
			}
			if got.Dismissed() != tc.wantOut {
				t.Fatalf("unexpected dismissed flag: got=%v want=%v", got.Dismissed(), tc.wantOut)
			}
			if got.Raw != tc.raw {
				t.Fatalf("raw text not preserved: got=%q", got.Raw)
			}
		})
	}
}

func TestDismissal_DirectRunOut(t *testing.T) {
	t.Parallel()

	if !Parse("run out (Jadeja)").DirectRunOut() {
		t.Fatalf("expected single-fielder run out to be direct")
	}
	if Parse("run out (Jadeja/Dhoni)").DirectRunOut() {
		t.Fatalf("expected two-fielder run out to be indirect")
	}
	if Parse("c Smith b Jones").DirectRunOut() {
		t.Fatalf("caught dismissal is not a run out")
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"c Smith b Jones",
		"c & b Ashwin",
		"run out (sub (Rahul)/†Karthik)",
		"c ȺȺȺȺȺȺ b X",
		"c Ⱥndré b Starc",
		"c İİİİ b Starc",
		"st ẞ b ẞ",
		"lbw b İ",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		got := Parse(raw)
		if got.Raw != raw {
			t.Fatalf("raw text not preserved: got=%q want=%q", got.Raw, raw)
		}
		if !utf8.ValidString(raw) {
			return
		}
		if !utf8.ValidString(got.Bowler) {
			t.Fatalf("bowler is not valid utf-8: %q", got.Bowler)
		}
		for _, name := range got.Fielders {
			if !utf8.ValidString(name) {
				t.Fatalf("fielder is not valid utf-8: %q", name)
			}
		}
	})
}
