package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kconfig-migrate/internal/config"
	"kconfig-migrate/internal/logging"
	"kconfig-migrate/internal/renames"
	"kconfig-migrate/internal/rewrite"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

type fixture struct {
	root   string
	conf   string
	kconf  string
	script string
	blob   string
	plain  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	return fixture{
		root:   root,
		conf:   writeFile(t, root, "samples/smp_svr/prj.conf", "CONFIG_MCUMGR_BUF_SIZE=512\nCONFIG_MCUMGR_SMP_UART=y\n"),
		kconf:  writeFile(t, root, "subsys/mgmt/Kconfig.uart", "config MCUMGR_SMP_UART_MTU\n\tint \"MTU\"\n"),
		script: writeFile(t, root, "scripts/check.py", "MCUMGR_BUF_SIZE = 1\n"),
		blob:   writeFile(t, root, "include/blob.h", "\xff\xfe\x00\x01MCUMGR_BUF_SIZE"),
		plain:  writeFile(t, root, "src/main.c", "int main(void) { return 0; }\n"),
	}
}

func run(t *testing.T, cfg *config.Config) (Stats, string, string) {
	t.Helper()
	var logs, out bytes.Buffer
	log := logging.NewWithWriter(&logs, false)
	rw := rewrite.New(renames.Default(), rewrite.Options{DryRun: cfg.DryRun})
	stats, err := Run(cfg, rw, log, &out)
	require.NoError(t, err)
	_ = log.Sync()
	return stats, logs.String(), out.String()
}

func TestRunRewritesTree(t *testing.T) {
	fx := newFixture(t)
	old := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []string{fx.script, fx.plain} {
		require.NoError(t, os.Chtimes(p, old, old))
	}

	cfg := config.DefaultConfig()
	cfg.Root = fx.root
	stats, logs, out := run(t, &cfg)

	assert.Equal(t, 4, stats.Eligible)
	assert.Equal(t, 2, stats.Rewritten)
	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Equal(t, 1, stats.NotText)
	assert.Equal(t, 0, stats.Failed)
	require.Error(t, stats.Err())

	assert.Equal(t, "CONFIG_MCUMGR_TRANSPORT_NETBUF_SIZE=512\nCONFIG_MCUMGR_TRANSPORT_UART=y\n", readFile(t, fx.conf))
	assert.Equal(t, "config MCUMGR_TRANSPORT_UART_MTU\n\tint \"MTU\"\n", readFile(t, fx.kconf))
	assert.Equal(t, "MCUMGR_BUF_SIZE = 1\n", readFile(t, fx.script))

	for _, p := range []string{fx.script, fx.plain} {
		st, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, st.ModTime().Equal(old), "%s was touched", p)
	}

	assert.Contains(t, logs, "Unable to read lines from "+fx.blob)
	assert.Contains(t, logs, "Rewrote samples/smp_svr/prj.conf (2 lines)")
	assert.Contains(t, logs, "Done: 4 eligible, 2 rewritten (3 lines), 1 unchanged, 1 not text, 0 failed")
	assert.Empty(t, out)
}

func TestRunDryRunWithDiff(t *testing.T) {
	fx := newFixture(t)
	before := readFile(t, fx.conf)

	cfg := config.DefaultConfig()
	cfg.Root = fx.root
	cfg.DryRun = true
	cfg.ShowDiff = true
	stats, logs, out := run(t, &cfg)

	assert.Equal(t, 2, stats.Rewritten)
	assert.Equal(t, before, readFile(t, fx.conf))
	assert.Contains(t, logs, "Would rewrite samples/smp_svr/prj.conf (2 lines)")
	assert.Contains(t, logs, "2 to rewrite (3 lines)")
	assert.Contains(t, out, "--- a/samples/smp_svr/prj.conf\n")
	assert.Contains(t, out, "-CONFIG_MCUMGR_BUF_SIZE=512\n")
	assert.Contains(t, out, "+CONFIG_MCUMGR_TRANSPORT_NETBUF_SIZE=512\n")
	assert.Contains(t, out, "+++ b/subsys/mgmt/Kconfig.uart\n")
}

func TestRunContinuesAfterFailures(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores permission bits")
	}
	fx := newFixture(t)
	require.NoError(t, os.Chmod(fx.conf, 0o000))
	t.Cleanup(func() { _ = os.Chmod(fx.conf, 0o644) })

	cfg := config.DefaultConfig()
	cfg.Root = fx.root
	stats, logs, _ := run(t, &cfg)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.NotText)
	assert.Equal(t, 1, stats.Rewritten)
	assert.Contains(t, logs, "Failed to rewrite "+fx.conf)
	assert.Equal(t, "config MCUMGR_TRANSPORT_UART_MTU\n\tint \"MTU\"\n", readFile(t, fx.kconf))
	assert.Len(t, stats.Errors.Errors, 2)
}

func TestRunSecondPassIsNoop(t *testing.T) {
	fx := newFixture(t)
	cfg := config.DefaultConfig()
	cfg.Root = fx.root

	first, _, _ := run(t, &cfg)
	require.Equal(t, 2, first.Rewritten)

	second, _, _ := run(t, &cfg)
	assert.Equal(t, 0, second.Rewritten)
	assert.Equal(t, 3, second.Unchanged)
}

func TestRunMissingRoot(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Root = filepath.Join(t.TempDir(), "missing")
	var logs bytes.Buffer
	_, err := Run(&cfg, rewrite.New(renames.Default(), rewrite.Options{}), logging.NewWithWriter(&logs, false), &bytes.Buffer{})
	assert.Error(t, err)
}
