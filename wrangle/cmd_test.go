package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runWrangle runs the root command with args and returns what it printed.
func runWrangle(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

type outputPaths struct {
	h, c string
}

func newOutputPaths(t *testing.T) outputPaths {
	dir := t.TempDir()
	return outputPaths{
		h: filepath.Join(dir, "spirv_info.h"),
		c: filepath.Join(dir, "spirv_info.c"),
	}
}

func (p outputPaths) args(grammar string) []string {
	return []string{"--json", grammar, "--out-h", p.h, "--out-c", p.c}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

var testGrammar = filepath.Join("testdata", "grammar.json")

func TestGenerate(t *testing.T) {
	paths := newOutputPaths(t)
	_, _, err := runWrangle(t, paths.args(testGrammar)...)
	require.NoError(t, err)

	h := readFile(t, paths.h)
	c := readFile(t, paths.c)

	t.Run("prototypes follow the kind list", func(t *testing.T) {
		last := -1
		for _, kind := range requestedKinds {
			idx := strings.Index(h, "const char *"+lookupFuncName(kind)+"(")
			require.GreaterOrEqual(t, idx, 0, "no prototype for %s", kind)
			assert.Greater(t, idx, last, "%s is out of order", kind)
			last = idx
		}
		assert.Contains(t, h, "const char *spirv_imageoperands_to_string(SpvImageOperandsMask v);\n")
		assert.Contains(t, h, "const char *spirv_fproundingmode_to_string(SpvFPRoundingMode v);\n")
		assert.Contains(t, h, "const char *spirv_op_to_string(SpvOp v);\n")
	})

	t.Run("definitions include the header", func(t *testing.T) {
		assert.Contains(t, c, "#include \"spirv_info.h\"\n")
	})

	t.Run("duplicate values keep the first name", func(t *testing.T) {
		assert.Contains(t, c, "   case SpvImageOperandsMakeTexelAvailableMask: return \"SpvImageOperandsMakeTexelAvailable\";\n")
		assert.NotContains(t, c, "MakeTexelAvailableKHR")
		assert.Contains(t, c, "   case SpvDecorationHlslSemanticGOOGLE: return \"SpvDecorationHlslSemanticGOOGLE\";\n")
		assert.NotContains(t, c, "UserSemantic")
		assert.NotContains(t, c, "VulkanKHR")
	})

	t.Run("opcode aliases keep the first name", func(t *testing.T) {
		assert.Contains(t, c, "   case SpvOpDecorateString: return \"SpvOpDecorateString\";\n")
		assert.NotContains(t, c, "GOOGLE: return \"SpvOp")
		assert.Equal(t, 1, strings.Count(c, "case SpvOpMemberDecorateString"))
	})

	t.Run("bit flags", func(t *testing.T) {
		assert.Contains(t, c, "   case SpvImageOperandsMaskNone: return \"SpvImageOperandsNone\";\n")
		assert.Contains(t, c, "   case SpvImageOperandsBiasMask: return \"SpvImageOperandsBias\";\n")
		assert.NotContains(t, c, "SpvImageOperandsMax")
	})

	t.Run("scalar sentinels", func(t *testing.T) {
		for _, kind := range requestedKinds {
			if kind == "ImageOperands" {
				continue
			}
			assert.Contains(t, c, "   case Spv"+kind+"Max: break; /* silence warnings about unhandled enums. */\n")
		}
	})
}

func TestGenerateIsIdempotent(t *testing.T) {
	paths := newOutputPaths(t)

	_, _, err := runWrangle(t, paths.args(testGrammar)...)
	require.NoError(t, err)
	h1, c1 := readFile(t, paths.h), readFile(t, paths.c)

	_, _, err = runWrangle(t, paths.args(testGrammar)...)
	require.NoError(t, err)
	assert.Equal(t, h1, readFile(t, paths.h))
	assert.Equal(t, c1, readFile(t, paths.c))
}

func TestGenerateOverwrites(t *testing.T) {
	paths := newOutputPaths(t)
	require.NoError(t, os.WriteFile(paths.c, []byte("old contents that are much longer than nothing at all\n"), 0o644))

	_, _, err := runWrangle(t, paths.args(testGrammar)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, paths.c), generatedNotice))
}

func TestGenerateUnknownKindWritesNothing(t *testing.T) {
	grammar := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(grammar, []byte(`{
		"operand_kinds": [
			{ "category": "ValueEnum", "kind": "Dim", "enumerants": [ { "enumerant": "1D", "value": 0 } ] }
		],
		"instructions": [ { "opname": "OpNop", "opcode": 0 } ]
	}`), 0o644))

	paths := newOutputPaths(t)
	_, _, err := runWrangle(t, paths.args(grammar)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errKindNotFound), "got %v", err)
	assert.Contains(t, err.Error(), `"AddressingModel"`)

	assert.NoFileExists(t, paths.h)
	assert.NoFileExists(t, paths.c)
}

func TestGenerateMalformedGrammar(t *testing.T) {
	grammar := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(grammar, []byte(`{ "instructions": [] }`), 0o644))

	paths := newOutputPaths(t)
	_, _, err := runWrangle(t, paths.args(grammar)...)
	assert.True(t, errors.Is(err, errMalformedGrammar), "got %v", err)
	assert.NoFileExists(t, paths.h)
}

func TestGenerateMissingGrammar(t *testing.T) {
	paths := newOutputPaths(t)
	_, _, err := runWrangle(t, paths.args(filepath.Join(t.TempDir(), "missing.json"))...)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestMissingFlags(t *testing.T) {
	_, _, err := runWrangle(t, "--json", testGrammar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUsage))
	assert.Contains(t, err.Error(), "--out-h, --out-c")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestUnexpectedArgs(t *testing.T) {
	paths := newOutputPaths(t)
	_, _, err := runWrangle(t, append(paths.args(testGrammar), "extra")...)
	assert.Error(t, err)
	assert.NoFileExists(t, paths.h)
}

func TestFlagsFromEnvironment(t *testing.T) {
	paths := newOutputPaths(t)
	t.Setenv("SPIRV_INFO_JSON", testGrammar)
	t.Setenv("SPIRV_INFO_OUT_H", paths.h)

	_, _, err := runWrangle(t, "--out-c", paths.c)
	require.NoError(t, err)
	assert.FileExists(t, paths.h)
	assert.FileExists(t, paths.c)
}

func TestFlagBeatsEnvironment(t *testing.T) {
	paths := newOutputPaths(t)
	t.Setenv("SPIRV_INFO_JSON", filepath.Join(t.TempDir(), "missing.json"))

	_, _, err := runWrangle(t, paths.args(testGrammar)...)
	require.NoError(t, err)
}

func TestDump(t *testing.T) {
	paths := newOutputPaths(t)
	_, stderr, err := runWrangle(t, append(paths.args(testGrammar), "--dump")...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "main.CollectedKind")
	assert.Contains(t, stderr, `"ImageOperands"`)
	assert.Contains(t, stderr, `"DecorateString"`)
}

func TestCheck(t *testing.T) {
	paths := newOutputPaths(t)

	_, _, err := runWrangle(t, append([]string{"check"}, paths.args(testGrammar)...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errOutOfDate))
	assert.Contains(t, err.Error(), paths.h)
	assert.Contains(t, err.Error(), paths.c)
	assert.NoFileExists(t, paths.h, "check must not write")

	_, _, err = runWrangle(t, paths.args(testGrammar)...)
	require.NoError(t, err)

	stdout, _, err := runWrangle(t, append([]string{"check"}, paths.args(testGrammar)...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "up to date")

	require.NoError(t, os.WriteFile(paths.h, []byte("/* hand edited */\n"), 0o644))
	_, _, err = runWrangle(t, append([]string{"check"}, paths.args(testGrammar)...)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errOutOfDate))
	assert.Contains(t, err.Error(), paths.h)
	assert.NotContains(t, err.Error(), paths.c)
}

func TestCheckMissingFlags(t *testing.T) {
	_, _, err := runWrangle(t, "check")
	assert.True(t, errors.Is(err, errUsage), "got %v", err)
}
