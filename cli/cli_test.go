package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/rtm/cli/cmd"
	"github.com/ardnew/rtm/manifest"
	"github.com/ardnew/rtm/pkg"
)

func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "rtm-cli-test-*")
	if err != nil {
		panic(err)
	}

	// Keep the configuration and cache directories out of the real home.
	os.Setenv("HOME", home)
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))

	code := m.Run()

	os.RemoveAll(home)
	os.Exit(code)
}

// run invokes Run with stdin and returns what the command wrote.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	ctx := cmd.WithOutput(context.Background(), &out)
	ctx = cmd.WithStdin(ctx, strings.NewReader(stdin))

	err := Run(ctx, func(code int) { t.Fatalf("exit(%d)", code) }, args...)

	return out.String(), err
}

func TestRun_Lint(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "withdraw.rtm")

	manifestText := `CALL_METHOD Address("$my_account") "withdraw" Address("$XRD") Decimal("10");` + "\n"
	if err := os.WriteFile(src, []byte(manifestText), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "--var", "my_account=account_tdx_2_1abc", "--network", "stokenet", "lint", src)
	if err != nil {
		t.Fatalf("lint: %v\n%s", err, out)
	}

	if out != "" {
		t.Errorf("unexpected diagnostics:\n%s", out)
	}

	// my_account keeps its placeholder, which is no address.
	out, err = run(t, "", "-n", "stokenet", src)
	if !errors.Is(err, cmd.ErrLintFailed) {
		t.Fatalf("lint error = %v, want %v", err, cmd.ErrLintFailed)
	}

	if !strings.Contains(out, "invalid address CHANGE_ME") {
		t.Errorf("missing address diagnostic in:\n%s", out)
	}
}

func TestRun_Subst(t *testing.T) {
	out, err := run(t, "LOCK_FEE Address(\"$XRD\") $fee;",
		"--network=stokenet", "-D", "fee=Decimal(\"1\")", "subst", "-")
	if err != nil {
		t.Fatal(err)
	}

	want := `LOCK_FEE Address("` + manifest.Stokenet.XRD + `") Decimal("1");`
	if out != want {
		t.Errorf("subst = %q, want %q", out, want)
	}
}

func TestRun_VarsFiles(t *testing.T) {
	dir := t.TempDir()

	team := filepath.Join(dir, "team.yaml")
	if err := os.WriteFile(team, []byte("owner: account_rdx1team\nfee:\n  expr: network + \"-fee\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	local := filepath.Join(dir, "local.yaml")
	if err := os.WriteFile(local, []byte("owner: account_rdx1me\nXRD: resource_rdx1fake\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "--vars", team, "--vars", local, "vars")
	if err != nil {
		t.Fatal(err)
	}

	want := "XRD=" + manifest.Mainnet.XRD + "  (read-only)\n" +
		"my_account=CHANGE_ME\n" +
		"owner=account_rdx1me\n" +
		"fee=mainnet-fee\n"

	if out != want {
		t.Errorf("vars mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestRun_VarsSearchPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "found.yaml"), []byte("found: here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(pkg.EnvPrefix()+"PATH", dir)

	out, err := run(t, "", "-V", "found.yaml", "vars", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `"found": "here"`) {
		t.Errorf("found.yaml not loaded:\n%s", out)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := configPath(baseConfig + ".yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("network: localnet\nlog_level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(path) })

	out, err := run(t, "", "vars")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "XRD="+manifest.Localnet.XRD) {
		t.Errorf("config network not applied:\n%s", out)
	}

	// Flags override the file.
	out, err = run(t, "", "--network", "simulator", "vars")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "XRD="+manifest.Simulator.XRD) {
		t.Errorf("flag did not override config:\n%s", out)
	}
}

func TestRun_Init(t *testing.T) {
	path := configPath(baseConfig + ".yaml")
	varsPath := configPath(baseVars)

	t.Cleanup(func() {
		os.Remove(path)
		os.Remove(varsPath)
	})

	if _, err := run(t, "", "--network", "stokenet", "init", "--with-vars"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "network: stokenet") {
		t.Errorf("config does not record the network:\n%s", data)
	}

	if _, err := run(t, "", "init"); !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("second init error = %v, want %v", err, cmd.ErrFileExists)
	}

	// The written files are picked up by later runs.
	out, err := run(t, "", "vars")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "XRD="+manifest.Stokenet.XRD) {
		t.Errorf("initialized configuration not applied:\n%s", out)
	}
}

func TestRun_Instructions(t *testing.T) {
	out, err := run(t, "", "instructions", "DROP_ALL_PROOFS")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "DROP_ALL_PROOFS") {
		t.Errorf("instructions output:\n%s", out)
	}
}

func TestRun_UnknownNetwork(t *testing.T) {
	var exited int

	ctx := cmd.WithOutput(context.Background(), new(bytes.Buffer))

	err := Run(ctx, func(code int) { exited = code }, "--network", "moon", "vars")
	if err == nil && exited == 0 {
		t.Error("unknown network accepted")
	}
}
