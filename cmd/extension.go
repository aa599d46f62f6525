package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/etnz/stk/config"
)

// Environment passed to extensions.
const (
	EnvConfigFile = "STK_CONFIG"
	EnvCurrency   = "STK_CURRENCY"
	EnvStorePath  = "STK_STORE_PATH"
)

// ExtensionPrefix prefixes the name of the binaries run as subcommands.
const ExtensionPrefix = "stk-"

// RunExtension attempts to find and execute an external stk-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func (a *App) RunExtension(configPath, subcommand string, args []string) (bool, int) {
	lp, err := exec.LookPath(ExtensionPrefix + subcommand)
	if err != nil {
		a.Log.Debug().Err(err).Str("subcommand", subcommand).Msg("no extension")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = a.Out
	cmd.Stderr = a.Err
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+configPath,
		EnvCurrency+"="+a.Config.Currency,
		config.EnvStore+"="+a.Config.Store.Backend,
		EnvStorePath+"="+a.Config.Store.Path,
		config.EnvLogLevel+"="+a.Config.LogLevel,
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(a.Err, "Error executing external command %q: %v\n", lp, err)
		return true, 1
	}
	return true, 0
}
