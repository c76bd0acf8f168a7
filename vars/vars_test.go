package vars

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/manifest"
)

func load(t *testing.T, src string) *Table {
	t.Helper()

	tbl, err := Load(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	return tbl
}

func entries(t *Table) []Entry {
	var out []Entry
	for e := range t.All() {
		out = append(out, e)
	}

	return out
}

func TestLoad(t *testing.T) {
	src := `
b_account: account_rdx1b
a_count: 5
flag: true
empty:
fee:
  expr: string(int(a_count) * 2)
admin:
  value: account_rdx1admin
  readonly: true
`

	want := []Entry{
		{Name: "b_account", Value: "account_rdx1b"},
		{Name: "a_count", Value: "5"},
		{Name: "flag", Value: "true"},
		{Name: "empty"},
		{Name: "fee", Expr: "string(int(a_count) * 2)"},
		{Name: "admin", Value: "account_rdx1admin", ReadOnly: true},
	}

	if diff := cmp.Diff(want, entries(load(t, src))); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Empty(t *testing.T) {
	if n := load(t, "").Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"bad name", "my-account: x\n", ErrName},
		{"unknown field", "a:\n  colour: red\n", ErrEntry},
		{"readonly not bool", "a:\n  readonly: maybe\n", ErrEntry},
		{"sequence", "a: [1, 2]\n", ErrEntry},
		{"value and expr", "a:\n  value: x\n  expr: y\n", ErrEntry},
		{"not yaml", "a: [\n", ErrLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, ErrLoad) {
				t.Errorf("Load() error = %v, want it to wrap %v", err, ErrLoad)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	if err := os.WriteFile(path, []byte("acct: account_rdx1a\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if e, ok := tbl.Get("acct"); !ok || e.Value != "account_rdx1a" {
		t.Errorf("Get(acct) = %+v, %v", e, ok)
	}

	_, err = LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrLoad) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v", err)
	}
}

func TestTable_Set(t *testing.T) {
	var tbl Table

	for _, e := range []Entry{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2", ReadOnly: true},
		{Name: "a", Value: "3"},
	} {
		if err := tbl.Set(e); err != nil {
			t.Fatalf("Set(%+v): %v", e, err)
		}
	}

	if err := tbl.Set(Entry{Name: "b", Value: "4"}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Set(read-only) error = %v", err)
	}

	if err := tbl.Set(Entry{Name: "$a"}); !errors.Is(err, ErrName) {
		t.Errorf("Set($a) error = %v", err)
	}

	want := []Entry{
		{Name: "a", Value: "3"},
		{Name: "b", Value: "2", ReadOnly: true},
	}

	if diff := cmp.Diff(want, entries(&tbl)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_Delete(t *testing.T) {
	tbl := load(t, "a: 1\nb:\n  value: 2\n  readonly: true\nc: 3\n")

	if err := tbl.Delete("a"); err != nil {
		t.Fatal(err)
	}

	if err := tbl.Delete("b"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete(b) error = %v", err)
	}

	if err := tbl.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}

	if diff := cmp.Diff([]string{"b", "c"}, tbl.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	if e, ok := tbl.Get("c"); !ok || e.Value != "3" {
		t.Errorf("Get(c) = %+v, %v", e, ok)
	}
}

func TestTable_NilReceiver(t *testing.T) {
	var tbl *Table

	if tbl.Len() != 0 || len(tbl.Names()) != 0 {
		t.Error("nil table is not empty")
	}

	if _, ok := tbl.Get("a"); ok {
		t.Error("nil table has an entry")
	}
}

func TestDefaults(t *testing.T) {
	want := []Entry{
		{Name: "XRD", Value: manifest.Stokenet.XRD, ReadOnly: true},
		{Name: "my_account", Value: "CHANGE_ME"},
	}

	if diff := cmp.Diff(want, entries(Defaults(manifest.Stokenet))); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelWarn))

	user := load(t, "my_account: account_rdx1me\nXRD: resource_rdx1fake\nextra: x\n")
	local := load(t, "extra: y\n")

	got := Merge(logger, Defaults(manifest.Mainnet), user, local)

	want := []Entry{
		{Name: "XRD", Value: manifest.Mainnet.XRD, ReadOnly: true},
		{Name: "my_account", Value: "account_rdx1me"},
		{Name: "extra", Value: "y"},
	}

	if diff := cmp.Diff(want, entries(got)); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(buf.String(), "variable override ignored") {
		t.Errorf("missing override warning in %q", buf.String())
	}
}

func TestResolve(t *testing.T) {
	tbl := Merge(log.Logger{}, Defaults(manifest.Stokenet), load(t, `
amount: 5
fee:
  expr: string(int(amount) * 2)
where:
  expr: network + "/" + hrp
native:
  expr: xrd == XRD
`))

	got, err := tbl.Resolve(context.Background(), manifest.Stokenet, log.Logger{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := manifest.VariableMap{
		"XRD":        manifest.Stokenet.XRD,
		"my_account": "CHANGE_ME",
		"amount":     "5",
		"fee":        "10",
		"where":      "stokenet/tdx_2_",
		"native":     "true",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "a:\n  expr: 1 +\n"},
		{"forward reference", "a:\n  expr: b\nb: 1\n"},
		{"runtime", "a:\n  expr: int(\"x\")\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.src).Resolve(context.Background(), manifest.Mainnet, log.Logger{})
			if !errors.Is(err, ErrExpr) {
				t.Errorf("Resolve() error = %v, want %v", err, ErrExpr)
			}
		})
	}
}

func TestResolve_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Defaults(manifest.Mainnet).Resolve(ctx, manifest.Mainnet, log.Logger{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want %v", err, context.Canceled)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	src := load(t, "a: x\nb:\n  expr: a + \"y\"\nc:\n  value: z\n  readonly: true\n")

	var buf bytes.Buffer
	if err := src.Encode(context.Background(), &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := load(t, buf.String())

	if diff := cmp.Diff(entries(src), entries(got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\n%s", diff, buf.String())
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"my_account": true,
		"XRD":        true,
		"1st":        true,
		"":           false,
		"a-b":        false,
		"a b":        false,
		"$a":         false,
	} {
		if got := ValidName(name); got != want {
			t.Errorf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestMerge_IdenticalReadOnly(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelWarn))

	got := Merge(logger, Defaults(manifest.Mainnet), Defaults(manifest.Mainnet))

	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}

	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}
