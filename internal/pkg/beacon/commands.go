package beacon

import (
	"fmt"
	"path"
	"strings"
)

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = shellQuote(item)
	}
	return strings.Join(quoted, " ")
}

func sourceURL(base, source string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(source, "/")
}

func remotePath(directory, name string) string {
	return path.Join(directory, name)
}

func mkdirCommand(directory string) string {
	return "mkdir -p " + shellQuote(directory)
}

func backupCommand(src, dst string) string {
	return fmt.Sprintf("if [ -f %s ]; then cp %s %s; fi", shellQuote(src), shellQuote(src), shellQuote(dst))
}

// curl -f turns HTTP errors into a non-zero exit code.
func fetchCommand(url, dst string) string {
	return fmt.Sprintf("curl -fsSL %s -o %s", shellQuote(url), shellQuote(dst))
}

func installCommand(directory string, packages []string) string {
	pkgs := quoteAll(packages)
	return fmt.Sprintf("cd %s && (pip3 install %s 2>/dev/null || sudo -n pip3 install %s)", shellQuote(directory), pkgs, pkgs)
}

func chmodCommand(file string) string {
	return "chmod +x " + shellQuote(file)
}

func stopSessionCommand(session string) string {
	return fmt.Sprintf("screen -X -S %s quit 2>/dev/null", shellQuote(session))
}

func startCommand(directory, launcher string) string {
	return fmt.Sprintf("cd %s && ./%s", shellQuote(directory), shellQuote(launcher))
}

func listSessionCommand(session string) string {
	return "screen -list | grep " + shellQuote(session)
}
