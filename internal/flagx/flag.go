// Package flagx lets several flag sets share one command line. Each loader
// picks out only the flags it owns before calling flag.FlagSet.Parse, so a
// flag meant for another loader never fails the parse.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps the arguments that belong to allowedFlags, in order.
// A flag may be written as "-x value", "-x=value" or with a double dash;
// "--x" matches an allowed "-x". A separate value is taken only when the
// next argument does not start with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[normalize(f)] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if !allowed[normalize(name)] {
			continue
		}
		out = append(out, arg)

		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// normalize maps "--name" onto "-name".
func normalize(flagName string) string {
	if strings.HasPrefix(flagName, "--") {
		return flagName[1:]
	}
	return flagName
}

// ConfigPath returns the configuration file named by -c or -config in args,
// or "" when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to the JSON config file")
	fs.StringVar(&path, "c", "", "path to the JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
