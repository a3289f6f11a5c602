package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/texbuilder/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadOrDefault_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDefault(filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, abs, cfg.WorkDir)
	assert.Equal(t, "main.tex", cfg.Document)
	assert.Equal(t, "main", cfg.DocumentStem())
	assert.Equal(t, filepath.Join(abs, "main.pdf"), cfg.ArtifactPath())
	assert.Equal(t, filepath.Join(abs, "compilation_log.txt"), cfg.LogPath())
	assert.Equal(t, "TEXINPUTS", cfg.SearchPath.Variable)
	assert.Equal(t, []string{"Styles", "Figures", "Content"}, cfg.SearchPath.Directories)
	assert.Equal(t, "Bibliography", cfg.Bibliography.Directory)
	assert.Equal(t, ".bib", cfg.Bibliography.Extension)
	assert.Equal(t, "pdflatex", cfg.Engines.Primary.Binary)
	assert.Equal(t, []string{"-interaction=nonstopmode", "-file-line-error"}, cfg.Engines.Primary.Args)
	assert.Equal(t, "bibtex", cfg.Engines.Bibliography.Binary)
	assert.Equal(t, "tectonic", cfg.Engines.Fallback.Binary)
	assert.Equal(t, []string{"-X", "compile"}, cfg.Engines.Fallback.Args)
	assert.Equal(t, OpenAuto, cfg.Open.Mode)
	assert.Equal(t, DefaultDebounce, cfg.DebounceDuration())
	assert.Zero(t, cfg.IntervalDuration())
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestLoad_FileValuesAndRelativeWorkDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "report"), 0o750))
	t.Setenv("REPORT_DOC", "informe.tex")

	path := writeConfig(t, dir, `
version: "1"
work_dir: report
document: ${REPORT_DOC}
log_file: build.log
search_path:
  directories: [styles]
engines:
  fallback:
    binary: /opt/tectonic/bin/tectonic
open:
  mode: NONE
watch:
  debounce: 1s
  interval: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	abs, _ := filepath.Abs(filepath.Join(dir, "report"))
	assert.Equal(t, abs, cfg.WorkDir)
	assert.Equal(t, "informe.tex", cfg.Document)
	assert.Equal(t, filepath.Join(abs, "informe.pdf"), cfg.ArtifactPath())
	assert.Equal(t, filepath.Join(abs, "build.log"), cfg.LogPath())
	assert.Equal(t, []string{"styles"}, cfg.SearchPath.Directories)
	assert.Equal(t, "/opt/tectonic/bin/tectonic", cfg.Engines.Fallback.Binary)
	assert.Nil(t, cfg.Engines.Fallback.Args)
	assert.Equal(t, "pdflatex", cfg.Engines.Primary.Binary)
	assert.Equal(t, OpenNone, cfg.Open.Mode)
	assert.Equal(t, time.Second, cfg.DebounceDuration())
	assert.Equal(t, 5*time.Minute, cfg.IntervalDuration())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "document: main.tex\n")
	other := t.TempDir()

	t.Setenv(EnvWorkDir, other)
	t.Setenv(EnvDocument, "thesis.tex")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvOpen, "default")
	t.Setenv(EnvMetrics, "/tmp/texbuilder.prom")

	cfg, err := Load(path)
	require.NoError(t, err)

	abs, _ := filepath.Abs(other)
	assert.Equal(t, abs, cfg.WorkDir)
	assert.Equal(t, "thesis.tex", cfg.Document)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, OpenDefault, cfg.Open.Mode)
	assert.Equal(t, "/tmp/texbuilder.prom", cfg.Metrics.Textfile)
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "document: ${TB_TEST_DOC}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TB_TEST_DOC=fromdotenv.tex\nTB_TEST_ONLY_DOTENV=yes\n"), 0o600))
	t.Setenv("TB_TEST_DOC", "fromprocess.tex")
	t.Cleanup(func() { _ = os.Unsetenv("TB_TEST_ONLY_DOTENV") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromprocess.tex", cfg.Document)
	assert.Equal(t, "yes", os.Getenv("TB_TEST_ONLY_DOTENV"))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"document with directory", "document: sub/main.tex\n", "document must be a file name"},
		{"bad open mode", "open:\n  mode: chrome\n", "open.mode"},
		{"bad debounce", "watch:\n  debounce: soon\n", "watch.debounce"},
		{"interval too short", "watch:\n  interval: 10ms\n", "watch.interval"},
		{"bad extension", "bibliography:\n  extension: bib\n", "bibliography.extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
		})
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFile)

	require.NoError(t, Init(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var written Config
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, "main.tex", written.Document)
	assert.Equal(t, "pdflatex", written.Engines.Primary.Binary)

	err = Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, OpenAuto, cfg.Open.Mode)
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARN "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("Json"))
	assert.Equal(t, []string{"auto", "default", "none", "viewer"}, OpenModes())

	_, err := ParseOpenMode("firefox")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid options")
}
