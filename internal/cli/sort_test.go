package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSort_Golden(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
	}{
		{"quick_numeric", "3,1,42", []string{"-q"}},
		{"insertion_numeric", "10, 9,\n8,100", []string{"-i"}},
		{"insertion_string", "pear,apple,Banana,fig", []string{"-i"}},
		{"quick_string_reverse", "b,,c,a,", []string{"-q", "--reverse"}},
		{"quick_numeric_json", "3,1,42", []string{"-q", "--format", "json"}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, "input.txt", tt.input)
			stdout, stderr, err := execute(t, append(tt.args, path)...)
			require.NoError(t, err)
			assert.Empty(t, stderr)
			g.Assert(t, tt.name, []byte(stdout))
		})
	}
}

func TestSort_BothAlgorithmsAgree(t *testing.T) {
	path := writeInput(t, "input.txt", "5,3,9,1,5,7,2,8,3")

	quick, _, err := execute(t, "-q", path)
	require.NoError(t, err)
	insertion, _, err := execute(t, "-i", path)
	require.NoError(t, err)
	bounded, _, err := execute(t, "-q", "--max-depth", "1", path)
	require.NoError(t, err)

	assert.Equal(t, "1\n2\n3\n3\n5\n5\n7\n8\n9\n", quick)
	assert.Equal(t, quick, insertion)
	assert.Equal(t, quick, bounded)
}

func TestSort_NumericClassCoercesLetters(t *testing.T) {
	path := writeInput(t, "input.txt", "12,ab,34")
	stdout, _, err := execute(t, "-q", path)
	require.NoError(t, err)
	assert.Equal(t, "0\n12\n34\n", stdout)
}

func TestSort_MissingMode(t *testing.T) {
	path := writeInput(t, "input.txt", "3,1")
	stdout, stderr, err := execute(t, path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error [E101]")
	assert.Contains(t, stderr, "`-q` or `-i`")
}

func TestSort_BothModes(t *testing.T) {
	path := writeInput(t, "input.txt", "3,1")
	stdout, _, err := execute(t, "-q", "-i", path)
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, err.Error(), "insertion")
	assert.Contains(t, err.Error(), "quick")
}

func TestSort_MissingPath(t *testing.T) {
	_, _, err := execute(t, "-q")
	require.Error(t, err)
}

func TestSort_UnreadableSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	stdout, stderr, err := execute(t, "-i", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error [E102]")

	// Opening must never create the source file.
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSort_UnreadableSourceJSON(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	stdout, _, err := execute(t, "-i", "--format", "json", missing)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSourceUnreadable, resp.Error.Code)
}

func TestSort_EmptySource(t *testing.T) {
	path := writeInput(t, "empty.txt", "")
	stdout, stderr, err := execute(t, "-q", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "warning: no tokens found in "+path)
}

func TestSort_UnknownEncoding(t *testing.T) {
	path := writeInput(t, "input.txt", "a")
	_, stderr, err := execute(t, "-q", "--encoding", "ebcdic", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E106]")
}

func TestSort_UTF16Source(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	data := []byte{0xff, 0xfe, 'b', 0, ',', 0, 'a', 0}
	require.NoError(t, os.WriteFile(path, data, 0644))

	stdout, _, err := execute(t, "-i", "--encoding", "utf-16", path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", stdout)
}

func TestSort_YAML(t *testing.T) {
	path := writeInput(t, "input.txt", "b,a")
	stdout, _, err := execute(t, "-i", "--format", "yaml", path)
	require.NoError(t, err)

	var doc struct {
		Class     string   `yaml:"class"`
		Algorithm string   `yaml:"algorithm"`
		Values    []string `yaml:"values"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "string", doc.Class)
	assert.Equal(t, "insertion", doc.Algorithm)
	assert.Equal(t, []string{"a", "b"}, doc.Values)
}

func TestSort_OutputFile(t *testing.T) {
	path := writeInput(t, "input.txt", "3,2,1")
	outPath := filepath.Join(t.TempDir(), "sorted.txt")

	stdout, _, err := execute(t, "-q", "-o", outPath, path)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", string(data))
}

func TestSort_Verbose(t *testing.T) {
	path := writeInput(t, "input.txt", "3,x!,1")
	stdout, stderr, err := execute(t, "-q", "-v", path)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n3\n", stdout)
	assert.Contains(t, stderr, "3 token(s), class numeric")
	assert.Contains(t, stderr, "Ignored 1 byte(s)")
	assert.Contains(t, stderr, "1 numeric token(s) could not be parsed")
}

func TestSort_Config(t *testing.T) {
	input := writeInput(t, "input.txt", "b,c,a")
	cfgPath := writeInput(t, "sort.cue", `
algorithm: "quick"
format:    "json"
reverse:   true
`)

	t.Run("config supplies algorithm", func(t *testing.T) {
		stdout, _, err := execute(t, "--config", cfgPath, input)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		assert.Equal(t, "quick", doc["algorithm"])
		assert.Equal(t, []any{"c", "b", "a"}, doc["values"])
	})

	t.Run("flags override config", func(t *testing.T) {
		stdout, _, err := execute(t, "--config", cfgPath, "-i", "--format", "text", input)
		require.NoError(t, err)
		assert.Equal(t, "c\nb\na\n", stdout)
	})
}

func TestSort_InvalidConfig(t *testing.T) {
	input := writeInput(t, "input.txt", "b,a")
	cfgPath := writeInput(t, "sort.cue", `algorithm: "bogo"`)

	stdout, stderr, err := execute(t, "--config", cfgPath, input)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error [E104]")
}
