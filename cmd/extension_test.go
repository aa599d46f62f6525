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
		t.Skip("extension script is a shell script")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
echo "args=$*"
echo "` + EnvCurrency + `=$` + EnvCurrency + `"
echo "` + EnvStorePath + `=$` + EnvStorePath + `"
echo "` + EnvConfigFile + `=$` + EnvConfigFile + `"
exit 3
`
	if err := os.WriteFile(filepath.Join(dir, ExtensionPrefix+"hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	app, out, _ := newTestApp(t, nil)
	app.Config.Store.Path = "/tmp/wallet"
	found, code := app.RunExtension("my.toml", "hello", []string{"a", "b"})
	if !found || code != 3 {
		t.Fatalf("RunExtension() = %v, %d, want true, 3", found, code)
	}
	for _, want := range []string{"args=a b", EnvCurrency + "=USD", EnvStorePath + "=/tmp/wallet", EnvConfigFile + "=my.toml"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("extension output misses %q:\n%s", want, out.String())
		}
	}

	if found, _ := app.RunExtension("", "nope-does-not-exist", nil); found {
		t.Error("RunExtension(missing) found an extension")
	}
}
