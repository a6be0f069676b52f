package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	e := newTestEnv(t)
	bin := t.TempDir()
	out := filepath.Join(e.dir, "out.txt")

	script := "#!/bin/sh\n" +
		"echo \"args=$*\" > " + out + "\n" +
		"echo \"" + EnvDraft + "=$" + EnvDraft + "\" >> " + out + "\n" +
		"echo \"" + EnvCatalog + "=$" + EnvCatalog + "\" >> " + out + "\n" +
		"exit 3\n"
	if err := os.WriteFile(filepath.Join(bin, "pci-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 3 {
		t.Fatalf("RunExtension() = %v, %d, want true, 3", found, code)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"args=a b", EnvDraft + "=" + e.draft, EnvCatalog + "=" + e.catalog} {
		if !strings.Contains(string(content), want) {
			t.Errorf("extension output does not contain %q:\n%s", want, content)
		}
	}

	if found, _ := RunExtension("missing-extension", nil); found {
		t.Errorf("RunExtension() found a missing extension")
	}
}
