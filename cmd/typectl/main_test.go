package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
)

const shapes = `
module = "geo"

[[type]]
name = "geo.Shape"
basic_size = 24
flags = ["basetype"]
doc = "Shape()\n--\n\nA plane figure."

[type.slots]
tp_repr = "shape_repr"

[[type]]
name = "geo.Circle"
bases = ["geo.Shape"]

[type.slots]
nb_add = "circle_add"
`

func testOptions(t *testing.T) options {
	t.Helper()
	pterm.DisableStyling()
	return options{
		configPath: filepath.Join(t.TempDir(), "typeready.toml"),
		logLevel:   "off",
	}
}

func TestRunBuild(t *testing.T) {
	filename := writeTempManifest(t, shapes)
	opts := testOptions(t)
	code, out, errOut := captureOutput(t, func() int {
		return runBuild(filename, opts)
	})

	if code != 0 {
		t.Fatalf("runBuild exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	for _, want := range []string{"geo.Circle -> geo.Shape -> object", "heaptype|basetype", "Built 2 types", "live blocks"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunBuildReportsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"layout conflict", "[[type]]\nname = \"X\"\nbases = [\"int\", \"str\"]\n", "Build Error"},
		{"unknown key", "[[type]]\nname = \"X\"\nsize = 3\n", "Manifest Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := writeTempManifest(t, tt.src)
			opts := testOptions(t)
			code, _, errOut := captureOutput(t, func() int {
				return runBuild(filename, opts)
			})
			if code != 1 {
				t.Errorf("exit=%d, want 1", code)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, errOut)
			}
		})
	}
}

func TestRunBuildBadConfig(t *testing.T) {
	filename := writeTempManifest(t, shapes)
	opts := testOptions(t)
	if err := os.WriteFile(opts.configPath, []byte("[engine]\ntrace = \"nowhere\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	code, _, errOut := captureOutput(t, func() int {
		return runBuild(filename, opts)
	})
	if code != 1 || !strings.Contains(errOut, "Config Error") {
		t.Errorf("exit=%d stderr:\n%s", code, errOut)
	}
}

func TestRunTree(t *testing.T) {
	filename := writeTempManifest(t, shapes)
	opts := testOptions(t)
	code, out, errOut := captureOutput(t, func() int {
		return runTree(filename, "geo.Shape", opts)
	})
	if code != 0 {
		t.Fatalf("runTree exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "geo.Shape (heap)") || !strings.Contains(out, "geo.Circle (heap)") {
		t.Errorf("tree output:\n%s", out)
	}

	code, _, errOut = captureOutput(t, func() int {
		return runTree(filename, "geo.Square", opts)
	})
	if code != 1 || !strings.Contains(errOut, "unknown type") {
		t.Errorf("unknown root: exit=%d stderr:\n%s", code, errOut)
	}
}

func TestRunSlots(t *testing.T) {
	filename := writeTempManifest(t, shapes)
	opts := testOptions(t)
	code, out, errOut := captureOutput(t, func() int {
		return runSlots(filename, "geo.Circle", opts)
	})
	if code != 0 {
		t.Fatalf("runSlots exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"nb_add", "circle_add", "__radd__", "shape_repr", `"geo"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunSteps(t *testing.T) {
	code, out, _ := captureOutput(t, runSteps)
	if code != 0 {
		t.Fatalf("exit=%d", code)
	}
	if !strings.Contains(out, " 1. base\n") || !strings.Contains(out, "mark-ready") {
		t.Errorf("steps output:\n%s", out)
	}
}

func TestRunVersion(t *testing.T) {
	code, out, _ := captureOutput(t, runVersion)
	if code != 0 || !strings.Contains(out, "typectl version "+Version) {
		t.Errorf("exit=%d output:\n%s", code, out)
	}
}

func writeTempManifest(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "types.toml")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
